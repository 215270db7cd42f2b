package chat

import "github.com/dmitrymomot/bankchat/core/banking"

// Kind discriminates turn results.
type Kind string

const (
	KindMessage   Kind = "message"
	KindModal     Kind = "modal"
	KindRejection Kind = "rejection"
)

// Modal asks the user for login fields.
type Modal struct {
	Title  string              `json:"title"`
	Logo   string              `json:"logo,omitempty"`
	Prompt string              `json:"prompt,omitempty"`
	Fields []banking.AuthField `json:"fields"`
}

// Result is the outcome of one turn: a bot message, a modal request or a
// user-facing rejection.
type Result struct {
	Kind   Kind   `json:"type"`
	Text   string `json:"content,omitempty"`
	Reason Reason `json:"reason,omitempty"`
	Modal  *Modal `json:"modal,omitempty"`
}

// Message returns a plain bot message.
func Message(text string) Result {
	return Result{Kind: KindMessage, Text: text}
}

// ModalRequest returns a login field prompt.
func ModalRequest(m Modal) Result {
	return Result{Kind: KindModal, Text: m.Prompt, Modal: &m}
}

// Rejected turns a rejection into a result.
func Rejected(r *Rejection) Result {
	return Result{Kind: KindRejection, Reason: r.Reason, Text: r.Text}
}
