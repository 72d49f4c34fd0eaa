package http

import (
	"log/slog"
	"net/http"

	"popquiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type leaderboardMessage struct {
	Type    string                    `json:"type"`
	Payload []domain.LeaderboardEntry `json:"payload"`
}

// StreamLeaderboard upgrades the connection and pushes the current
// leaderboard followed by an update after every accepted submission.
func (h *Handler) StreamLeaderboard(w http.ResponseWriter, r *http.Request) {
	updates, cancel, err := h.service.Subscribe(r.Context())
	if err != nil {
		slog.Error("leaderboard subscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to open leaderboard stream")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		slog.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for update := range updates {
			if err := conn.WriteJSON(leaderboardMessage{Type: "leaderboard", Payload: update}); err != nil {
				slog.Warn("ws write failed", "error", err)
				return
			}
		}
	}()

	// Inbound frames are ignored; the read loop only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	<-writerDone
}
