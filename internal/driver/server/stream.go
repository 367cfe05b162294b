package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexandremahdhaoui/chterm/internal/types"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
)

// StatusSessionEnded is the websocket close code sent when the session can no longer be read.
const StatusSessionEnded websocket.StatusCode = 4000

const maxCloseReason = 120

// stream replays the screen buffer, then forwards console output to the client and client messages
// to the console until either side goes away.
func (s *server) stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := GetScope(r.Context())

	screen, err := s.terminal.GetScreenContent(r.Context(), id, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{ //nolint:exhaustruct
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		// Accept already wrote the response.
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	log := logr.FromContextOrDiscard(r.Context()).WithValues("sessionID", id)
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if screen != "" {
		if err := conn.Write(ctx, websocket.MessageText, []byte(screen)); err != nil {
			return
		}
	}

	go s.forwardInput(ctx, cancel, conn, id, owner, log)

	ticker := time.NewTicker(s.opts.StreamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		out, err := s.terminal.Read(ctx, id, owner)
		if err != nil {
			if ctx.Err() == nil {
				closeWithError(conn, err)
			}
			return
		}

		if out == "" {
			continue
		}

		if err := conn.Write(ctx, websocket.MessageText, []byte(out)); err != nil {
			return
		}
	}
}

func (s *server) forwardInput(
	ctx context.Context,
	cancel context.CancelFunc,
	conn *websocket.Conn,
	id, owner string,
	log logr.Logger,
) {
	defer cancel()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				log.V(1).Info("stream read failed", "error", err.Error())
			}
			return
		}

		if err := s.terminal.Write(ctx, id, string(data), owner); err != nil {
			closeWithError(conn, err)
			return
		}
	}
}

func closeWithError(conn *websocket.Conn, err error) {
	reason := string(types.ErrorKind(err)) + ": " + err.Error()
	if len(reason) > maxCloseReason {
		reason = strings.ToValidUTF8(reason[:maxCloseReason], "")
	}

	_ = conn.Close(StatusSessionEnded, reason)
}
