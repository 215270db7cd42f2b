package chatbot

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bankchat/core/chat"
	"github.com/dmitrymomot/bankchat/core/logger"
)

// frame is one inbound websocket turn: a chat message or a login form.
type frame struct {
	Content     string            `json:"content"`
	Credentials map[string]string `json:"credentials"`
}

// serveWS upgrades the connection and runs one turn per inbound frame.
// The token is checked before upgrading.
func (a *App) serveWS(w http.ResponseWriter, r *http.Request) {
	token := tokenOf(r)
	if _, err := a.sessions.GetByToken(r.Context(), token); err != nil {
		a.fail(w, r, "", err)
		return
	}

	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		return
	}
	defer conn.Close()
	conn.SetReadLimit(a.cfg.MaxBodyBytes)
	// Server timeouts survive the hijack and would cut long conversations.
	_ = conn.NetConn().SetDeadline(time.Time{})

	ctx := r.Context()
	lang := a.dispatcher.Language(r.Header.Get("Accept-Language"))

	for {
		var in frame
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.DebugContext(ctx, "websocket closed", logger.Error(err))
			}
			return
		}

		var (
			res   chat.Result
			state *chat.SessionState
		)
		switch {
		case in.Credentials != nil:
			res, state, err = a.turn(ctx, token, func(s *chat.SessionState) (chat.Result, error) {
				return a.dispatcher.SubmitCredentials(ctx, s, in.Credentials)
			})
		case strings.TrimSpace(in.Content) != "":
			res, state, err = a.turn(ctx, token, func(s *chat.SessionState) (chat.Result, error) {
				return a.dispatcher.HandleTurn(ctx, s, in.Content)
			})
		default:
			err = errBadRequest
		}

		if state != nil {
			lang = state.Language
		}
		if err == nil {
			if werr := conn.WriteJSON(view(res, lang)); werr != nil {
				return
			}
			continue
		}

		code, key := classify(err)
		a.logger.DebugContext(ctx, "websocket turn failed", logger.Error(err))
		if werr := conn.WriteJSON(resultView{Type: typeError, Content: a.dispatcher.Translator(lang).T(key)}); werr != nil {
			return
		}
		if code == http.StatusUnauthorized {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session ended"))
			return
		}
	}
}
