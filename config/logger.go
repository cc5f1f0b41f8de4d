package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// ConfigureLogger sets up the standard logrus logger for the environment.
// Production logs are JSON; everything else uses the text formatter.
func ConfigureLogger(cfg *Config) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, falling back to info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
