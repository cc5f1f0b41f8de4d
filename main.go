package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/honeyhomes/honey-homes-api/config"
	"github.com/honeyhomes/honey-homes-api/models"
	"github.com/honeyhomes/honey-homes-api/routes"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	config.SetConfig(cfg)

	log := config.ConfigureLogger(cfg)
	log.WithField("config", cfg.String()).Info("Starting Honey Homes API server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Auto-migrate database models
	if err := config.GetDB().AutoMigrate(models.All()...); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	log.Info("Database migration completed successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initAvatarStorage(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Failed to initialize avatar storage")
	}

	publisher, err := services.InitEventPublisher(cfg.NATSURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to event bus")
	}
	defer publisher.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(ctx, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shut down")
	}
}

// initAvatarStorage uses S3 when a bucket is configured and local disk
// otherwise.
func initAvatarStorage(ctx context.Context, cfg *config.Config) error {
	if cfg.UsesS3() {
		if _, err := services.InitS3Service(ctx, cfg); err != nil {
			return err
		}
		logrus.WithField("bucket", cfg.AWSS3Bucket).Info("Avatars stored in S3")
		return nil
	}

	services.SetS3Service(services.NewLocalObjectStore(cfg.UploadDir, ""))
	logrus.WithField("dir", cfg.UploadDir).Info("Avatars stored on local disk")
	return nil
}
