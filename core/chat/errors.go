package chat

import "errors"

// ErrAuthentication is returned by InitializeSession when the API credential is rejected.
var ErrAuthentication = errors.New("chat: invalid API credential")

// Reason classifies a user-facing rejection.
type Reason string

const (
	ReasonLoginRequired       Reason = "login_required"
	ReasonAlreadyLoggedIn     Reason = "already_logged_in"
	ReasonNoLoginPending      Reason = "no_login_pending"
	ReasonMissingFields       Reason = "missing_fields"
	ReasonWrongCredentials    Reason = "wrong_credentials"
	ReasonProviderUnavailable Reason = "provider_unavailable"
	ReasonNoProvider          Reason = "no_provider"
	ReasonDateUnrecognized    Reason = "date_unrecognized"
	ReasonDateOrder           Reason = "date_order"
	ReasonDateFuture          Reason = "date_future"
	ReasonNotFound            Reason = "not_found"
	ReasonAmbiguous           Reason = "ambiguous"
	ReasonMissingZip          Reason = "missing_zip"
)

// Rejection is a recoverable, user-facing refusal. Its text is shown to the
// user verbatim.
type Rejection struct {
	Reason Reason
	Text   string
}

func (r *Rejection) Error() string {
	return string(r.Reason) + ": " + r.Text
}

func reject(reason Reason, text string) *Rejection {
	return &Rejection{Reason: reason, Text: text}
}

// AsRejection reports whether err is or wraps a Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
