// Package bankingtest provides a testify mock of banking.API.
package bankingtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/bankchat/core/banking"
)

// API is a mock banking.API. Set expectations with On; results are
// returned as configured.
type API struct {
	mock.Mock
}

var _ banking.API = (*API)(nil)

func (m *API) ListProviders(ctx context.Context, credential string) ([]banking.Provider, error) {
	args := m.Called(ctx, credential)
	return slice[banking.Provider](args.Get(0)), args.Error(1)
}

func (m *API) ProviderDetail(ctx context.Context, credential, code string) (banking.Provider, error) {
	args := m.Called(ctx, credential, code)
	p, _ := args.Get(0).(banking.Provider)
	return p, args.Error(1)
}

func (m *API) Login(ctx context.Context, credential string, req banking.LoginRequest) (banking.LoginResponse, error) {
	args := m.Called(ctx, credential, req)
	resp, _ := args.Get(0).(banking.LoginResponse)
	return resp, args.Error(1)
}

func (m *API) Logout(ctx context.Context, credential, key string) (banking.LogoutResponse, error) {
	args := m.Called(ctx, credential, key)
	resp, _ := args.Get(0).(banking.LogoutResponse)
	return resp, args.Error(1)
}

func (m *API) ClientInfo(ctx context.Context, credential, key string) (banking.ClientInfo, error) {
	args := m.Called(ctx, credential, key)
	info, _ := args.Get(0).(banking.ClientInfo)
	return info, args.Error(1)
}

func (m *API) Accounts(ctx context.Context, credential, key string) ([]banking.Account, error) {
	args := m.Called(ctx, credential, key)
	return slice[banking.Account](args.Get(0)), args.Error(1)
}

func (m *API) Cards(ctx context.Context, credential, key string) ([]banking.Card, error) {
	args := m.Called(ctx, credential, key)
	return slice[banking.Card](args.Get(0)), args.Error(1)
}

func (m *API) AccountMovements(ctx context.Context, credential, key string, q banking.MovementQuery) ([]banking.Movement, error) {
	args := m.Called(ctx, credential, key, q)
	return slice[banking.Movement](args.Get(0)), args.Error(1)
}

func (m *API) CardMovements(ctx context.Context, credential, key string, q banking.MovementQuery) ([]banking.Movement, error) {
	args := m.Called(ctx, credential, key, q)
	return slice[banking.Movement](args.Get(0)), args.Error(1)
}

func (m *API) Branches(ctx context.Context, credential, provider, zip string) ([]banking.Branch, error) {
	args := m.Called(ctx, credential, provider, zip)
	return slice[banking.Branch](args.Get(0)), args.Error(1)
}

func (m *API) ATMs(ctx context.Context, credential, provider, zip string) ([]banking.Branch, error) {
	args := m.Called(ctx, credential, provider, zip)
	return slice[banking.Branch](args.Get(0)), args.Error(1)
}

func slice[T any](v any) []T {
	s, _ := v.([]T)
	return s
}

// AcmeBank is a provider with two required fields, one optional field and
// one interactive field.
func AcmeBank() banking.Provider {
	return banking.Provider{
		Code:    "acme",
		Name:    "Acme Bank",
		Country: "UY",
		Logo:    "https://example.com/acme.png",
		AuthFields: []banking.AuthField{
			{Name: "username", Type: "text", LabelEN: "Username", LabelES: "Usuario"},
			{Name: "password", Type: "password", LabelEN: "Password", LabelES: "Clave"},
			{Name: "document", Type: "text", Optional: true, LabelEN: "Document", LabelES: "Documento"},
			{Name: "otp", Type: "text", Interactive: true, LabelEN: "One-time code", LabelES: "Codigo"},
		},
	}
}
