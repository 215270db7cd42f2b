package chatbot

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrymomot/bankchat/core/chat"
)

type fieldView struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Optional bool   `json:"optional,omitempty"`
}

// resultView is the wire form of a chat.Result or a failure.
type resultView struct {
	Type    string      `json:"type"`
	Sender  string      `json:"sender,omitempty"`
	Content string      `json:"content,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Title   string      `json:"title,omitempty"`
	Logo    string      `json:"logo,omitempty"`
	Prompt  string      `json:"prompt,omitempty"`
	Fields  []fieldView `json:"fields,omitempty"`
}

type historyView struct {
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type sessionView struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Language  string        `json:"language"`
	Messages  []historyView `json:"messages"`
}

const typeError = "error"

func view(res chat.Result, lang string) resultView {
	v := resultView{Type: string(res.Kind), Content: res.Text}
	switch res.Kind {
	case chat.KindMessage:
		v.Sender = chat.SenderBot
	case chat.KindRejection:
		v.Sender = chat.SenderBot
		v.Reason = string(res.Reason)
	case chat.KindModal:
		v.Title = res.Modal.Title
		v.Logo = res.Modal.Logo
		v.Prompt = res.Modal.Prompt
		for _, f := range res.Modal.Fields {
			v.Fields = append(v.Fields, fieldView{Name: f.Name, Type: f.Type, Label: f.Label(lang), Optional: f.Optional})
		}
	}
	return v
}

// status returns the HTTP status of a turn result.
func status(res chat.Result) int {
	if res.Kind == chat.KindRejection {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

func historyOf(state *chat.SessionState) []historyView {
	out := make([]historyView, 0, len(state.History))
	for _, m := range state.History {
		out = append(out, historyView(m))
	}
	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
