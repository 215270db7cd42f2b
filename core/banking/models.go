package banking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Login outcome statuses.
const (
	StatusLoggedIn            = "logged_in"
	StatusInteractionRequired = "interaction_required"
	StatusWrongCredentials    = "wrong_credentials"
	StatusError               = "error"
	StatusLoggedOut           = "logged_out"
)

// LoginRequest is one login attempt against a provider.
// Key carries the session key of a previous round, if any.
type LoginRequest struct {
	Provider string
	Key      string
	Fields   map[string]string
}

// LoginResponse is the raw outcome of a login attempt.
type LoginResponse struct {
	Status  string `json:"status"`
	Key     string `json:"key,omitempty"`
	Field   string `json:"field,omitempty"`
	Context string `json:"context,omitempty"`
	Message string `json:"message,omitempty"`
}

// LogoutResponse is the raw outcome of a logout call.
type LogoutResponse struct {
	Status string `json:"status"`
}

// ClientInfo holds the account holder's personal data.
type ClientInfo struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
}

// Account is a bank account of the logged in user.
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Number   string          `json:"number"`
	Branch   string          `json:"branch,omitempty"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// Card is a credit card of the logged in user.
type Card struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Number        string          `json:"number"`
	CloseDate     string          `json:"close_date,omitempty"`
	DueDate       string          `json:"due_date,omitempty"`
	BalanceLocal  decimal.Decimal `json:"balance_local"`
	BalanceDollar decimal.Decimal `json:"balance_dollar"`
}

// Movement is a single account or card transaction.
type Movement struct {
	ID        string          `json:"id"`
	Reference string          `json:"reference,omitempty"`
	Date      string          `json:"date"`
	Detail    string          `json:"detail"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Amount returns the signed movement amount: credits positive, debits negative.
func (m Movement) Amount() decimal.Decimal {
	return m.Credit.Sub(m.Debit)
}

// MovementQuery selects the movements of one account or card in an inclusive date range.
type MovementQuery struct {
	Number   string
	Currency string
	Start    time.Time
	End      time.Time
}

// Branch is a physical branch or ATM of a provider.
type Branch struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
}
