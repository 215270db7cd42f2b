package banking_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/bankchat/core/banking"
)

func acme() banking.Provider {
	return banking.Provider{
		Code:    "acme",
		Name:    "Acme Bank",
		Country: "UY",
		AuthFields: []banking.AuthField{
			{Name: "username", Type: "text", LabelEN: "User", LabelES: "Usuario"},
			{Name: "password", Type: "password", LabelEN: "Password"},
			{Name: "document", Type: "text", Optional: true},
			{Name: "otp", Type: "text", Interactive: true, LabelEN: "One-time code", LabelES: "Codigo"},
		},
	}
}

func TestProvider_RequiredFields(t *testing.T) {
	t.Parallel()

	names := func(fields []banking.AuthField) []string {
		out := make([]string, len(fields))
		for i, f := range fields {
			out[i] = f.Name
		}
		return out
	}

	assert.Equal(t, []string{"username", "password"}, names(acme().RequiredFields()))
	assert.Empty(t, banking.Provider{}.RequiredFields())
}

func TestProvider_InteractiveField(t *testing.T) {
	t.Parallel()

	t.Run("returns declared descriptor", func(t *testing.T) {
		t.Parallel()

		f := acme().InteractiveField("otp")
		assert.Equal(t, "One-time code", f.Label("en"))
		assert.True(t, f.Interactive)
	})

	t.Run("synthesizes undeclared field", func(t *testing.T) {
		t.Parallel()

		f := acme().InteractiveField("personal_questions")
		assert.Equal(t, banking.AuthField{Name: "personal_questions", Type: "text", Interactive: true}, f)
	})
}

func TestAuthField_Label(t *testing.T) {
	t.Parallel()

	f := acme().AuthFields[0]
	assert.Equal(t, "User", f.Label("en"))
	assert.Equal(t, "Usuario", f.Label("es-AR"))
	assert.Equal(t, "Password", acme().AuthFields[1].Label("es"))
	assert.Equal(t, "document", acme().AuthFields[2].Label("en"))
}

func TestMovement_Amount(t *testing.T) {
	t.Parallel()

	m := banking.Movement{Debit: decimal.RequireFromString("10.50"), Credit: decimal.Zero}
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("-10.5")))
}
