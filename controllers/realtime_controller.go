package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/honeyhomes/honey-homes-api/services"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The access token authenticates the connection, not the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProfileUpdates handles GET /api/v1/realtime/profiles - a websocket that
// receives an UPDATE event whenever the caller's profile changes
func ProfileUpdates(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	hub := services.GetRealtimeHub()
	sub := hub.Subscribe(session.UserID)
	log := logrus.WithField("user_id", session.UserID)
	log.Debug("Realtime subscriber connected")

	go writeEvents(conn, sub)

	// The read loop only handles control frames and detects disconnects.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	hub.Unsubscribe(sub)
	log.Debug("Realtime subscriber disconnected")
}

func writeEvents(conn *websocket.Conn, sub *services.RealtimeSubscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
