package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/notetaker/internal/pipeline"
	"github.com/nguyentantai21042004/notetaker/internal/recorder"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
	Phase   string `json:"phase"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Phase:   s.pipeline.Status().Phase.String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.pipeline.Status().View())
}

// handleToggle answers 200 after a start and 202 after a stop, since the
// summary is produced in the background.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	action, err := s.pipeline.Toggle(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrBusy), errors.Is(err, recorder.ErrNoActiveRecording):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, recorder.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, pipeline.PermissionDeniedMessage)
		return
	default:
		s.logger.Error(r.Context(), "Toggle failed: %v", err)
		writeError(w, http.StatusInternalServerError, "toggle failed")
		return
	}

	code := http.StatusOK
	if action == pipeline.ActionStop {
		code = http.StatusAccepted
	}
	writeJSON(w, code, s.pipeline.Status().View())
}

// handleStatusStream pushes the current status and every change over a
// websocket until the client goes away.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := s.pipeline.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case status, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(status.View()); err != nil {
				s.logger.Debug(r.Context(), "Websocket write failed: %v", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}
