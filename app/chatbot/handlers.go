package chatbot

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/core/chat"
	"github.com/dmitrymomot/bankchat/core/logger"
	"github.com/dmitrymomot/bankchat/core/session"
)

type startRequest struct {
	APIKey string `json:"api_key"`
}

type messageRequest struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

func (a *App) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, "", errBadRequest)
		return
	}
	a.start(w, r, req.APIKey)
}

func (a *App) startGuest(w http.ResponseWriter, r *http.Request) {
	if a.cfg.GuestAPIKey == "" {
		a.fail(w, r, "", errGuestDisabled)
		return
	}
	a.start(w, r, a.cfg.GuestAPIKey)
}

func (a *App) start(w http.ResponseWriter, r *http.Request, apiKey string) {
	ctx := r.Context()
	lang := a.dispatcher.Language(r.Header.Get("Accept-Language"))

	state, err := a.dispatcher.InitializeSession(ctx, apiKey, lang)
	if err != nil {
		a.fail(w, r, lang, err)
		return
	}
	sess, err := a.sessions.Create(ctx, *state)
	if err != nil {
		a.fail(w, r, lang, err)
		return
	}

	a.logger.InfoContext(ctx, "conversation started", logger.SessionID(sess.ID.String()))
	writeJSON(w, http.StatusCreated, sessionView{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Language:  state.Language,
		Messages:  historyOf(state),
	})
}

func (a *App) endSession(w http.ResponseWriter, r *http.Request) {
	token := tokenOf(r)
	if err := a.sessions.Delete(r.Context(), token); err != nil {
		a.fail(w, r, "", err)
		return
	}
	a.gates.forget(token)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) postMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		a.fail(w, r, "", errBadRequest)
		return
	}
	if req.Sender != chat.SenderUser {
		a.fail(w, r, "", errBadSender)
		return
	}

	res, state, err := a.turn(r.Context(), tokenOf(r), func(s *chat.SessionState) (chat.Result, error) {
		return a.dispatcher.HandleTurn(r.Context(), s, req.Content)
	})
	a.reply(w, r, res, state, err)
}

func (a *App) providerLogin(w http.ResponseWriter, r *http.Request) {
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		a.fail(w, r, "", errBadRequest)
		return
	}

	res, state, err := a.turn(r.Context(), tokenOf(r), func(s *chat.SessionState) (chat.Result, error) {
		return a.dispatcher.SubmitCredentials(r.Context(), s, fields)
	})
	a.reply(w, r, res, state, err)
}

func (a *App) history(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.GetByToken(r.Context(), tokenOf(r))
	if err != nil {
		a.fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, historyOf(&sess.Data))
}

func (a *App) reply(w http.ResponseWriter, r *http.Request, res chat.Result, state *chat.SessionState, err error) {
	lang := ""
	if state != nil {
		lang = state.Language
	}
	if err != nil {
		a.fail(w, r, lang, err)
		return
	}
	writeJSON(w, status(res), view(res, lang))
}

var (
	errBadRequest    = errors.New("chatbot: malformed request")
	errBadSender     = errors.New("chatbot: sender must be user")
	errGuestDisabled = errors.New("chatbot: guest access disabled")
)

// fail writes err as a translated error payload. An empty lang is taken
// from Accept-Language.
func (a *App) fail(w http.ResponseWriter, r *http.Request, lang string, err error) {
	if lang == "" {
		lang = a.dispatcher.Language(r.Header.Get("Accept-Language"))
	}
	code, key := classify(err)
	if code >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed", logger.Path(r.URL.Path), logger.Error(err))
	}
	writeJSON(w, code, resultView{Type: typeError, Content: a.dispatcher.Translator(lang).T(key)})
}

// classify maps failures to an HTTP status and a message key.
func classify(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, errBadRequest), errors.As(err, &maxBytes):
		return http.StatusBadRequest, "errors.request"
	case errors.Is(err, errBadSender):
		return http.StatusBadRequest, "errors.sender"
	case errors.Is(err, errGuestDisabled):
		return http.StatusNotFound, "errors.guest"
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, "errors.rate"
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return http.StatusUnauthorized, "errors.session"
	case errors.Is(err, chat.ErrAuthentication):
		return http.StatusUnauthorized, "errors.api_key"
	case errors.Is(err, banking.ErrKeyNotFound):
		return http.StatusInternalServerError, "errors.api_key"
	default:
		return http.StatusInternalServerError, "errors.generic"
	}
}

// tokenOf reads the session token from the header, or the query for websockets.
func tokenOf(r *http.Request) string {
	if t := r.Header.Get(TokenHeader); t != "" {
		return t
	}
	return r.URL.Query().Get("token")
}
