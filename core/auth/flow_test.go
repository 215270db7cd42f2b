package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bankchat/core/auth"
	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/core/banking/bankingtest"
)

const credential = "api-key"

func fieldNames(fields []banking.AuthField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func selected(t *testing.T, api *bankingtest.API) (*auth.Flow, *auth.Session) {
	t.Helper()
	api.On("ProviderDetail", mock.Anything, credential, "acme").Return(bankingtest.AcmeBank(), nil).Once()

	flow := auth.NewFlow(api)
	sess, err := flow.Select(context.Background(), credential, nil, "acme")
	require.NoError(t, err)
	return flow, sess
}

func TestFlow_FullInteractiveLogin(t *testing.T) {
	t.Parallel()

	api := &bankingtest.API{}
	flow, sess := selected(t, api)
	ctx := context.Background()

	assert.Equal(t, auth.ProviderSelected, sess.State)
	assert.Equal(t, []string{"username", "password"}, fieldNames(sess.Expected))
	assert.Empty(t, sess.SessionKey)

	api.On("Login", mock.Anything, credential, banking.LoginRequest{
		Provider: "acme",
		Fields:   map[string]string{"username": "jane", "password": "secret"},
	}).Return(banking.LoginResponse{
		Status:  banking.StatusInteractionRequired,
		Field:   "otp",
		Context: "Code sent to your phone",
		Key:     "interim",
	}, nil).Once()

	err := flow.Submit(ctx, credential, sess, map[string]string{"username": "jane", "password": "secret"})
	require.NoError(t, err)
	assert.Equal(t, auth.InteractionRequired, sess.State)
	assert.Equal(t, []string{"otp"}, fieldNames(sess.Expected))
	assert.Equal(t, "Code sent to your phone", sess.Prompt)
	assert.Equal(t, map[string]string{"username": "jane", "password": "secret"}, sess.Pending)
	assert.Empty(t, sess.SessionKey)
	assert.False(t, sess.IsAuthenticated())

	api.On("Login", mock.Anything, credential, banking.LoginRequest{
		Provider: "acme",
		Key:      "interim",
		Fields:   map[string]string{"username": "jane", "password": "secret", "otp": "123456"},
	}).Return(banking.LoginResponse{Status: banking.StatusLoggedIn, Key: "abc"}, nil).Once()

	err = flow.Submit(ctx, credential, sess, map[string]string{"otp": " 123456 "})
	require.NoError(t, err)
	assert.Equal(t, auth.LoggedIn, sess.State)
	assert.Equal(t, "abc", sess.SessionKey)
	assert.Empty(t, sess.Expected)
	assert.Nil(t, sess.Pending)
	assert.True(t, sess.IsAuthenticated())

	raw, err := json.Marshal(sess)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "jane")

	api.AssertExpectations(t)
}

func TestFlow_Submit(t *testing.T) {
	t.Parallel()

	creds := map[string]string{"username": "jane", "password": "secret"}

	t.Run("rejects missing expected fields without remote call", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		before := sess.Clone()

		err := flow.Submit(context.Background(), credential, sess, map[string]string{"username": "jane", "password": "  "})
		var missing *auth.MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"password"}, missing.Fields)
		assert.ErrorIs(t, err, auth.ErrMissingFields)
		assert.Equal(t, before, sess)
		api.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong credentials preserve pending state", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		before := sess.Clone()
		api.On("Login", mock.Anything, credential, mock.Anything).
			Return(banking.LoginResponse{Status: banking.StatusWrongCredentials}, nil).Once()

		err := flow.Submit(context.Background(), credential, sess, creds)
		assert.ErrorIs(t, err, auth.ErrWrongCredentials)
		assert.Equal(t, before, sess)
		assert.Equal(t, auth.ProviderSelected, sess.State)
	})

	t.Run("unauthorized provider ends the attempt", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		api.On("Login", mock.Anything, credential, mock.Anything).
			Return(banking.LoginResponse{Status: banking.StatusError, Message: "Unauthorized provider"}, nil).Once()

		err := flow.Submit(context.Background(), credential, sess, creds)
		assert.ErrorIs(t, err, auth.ErrProviderUnavailable)
		assert.Equal(t, auth.NoProvider, sess.State)
		assert.Empty(t, sess.Expected)
	})

	t.Run("unknown status is a contract violation", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		before := sess.Clone()
		api.On("Login", mock.Anything, credential, mock.Anything).
			Return(banking.LoginResponse{Status: "maintenance"}, nil).Once()

		err := flow.Submit(context.Background(), credential, sess, creds)
		assert.ErrorIs(t, err, banking.ErrContractViolation)
		assert.Equal(t, before, sess)
	})

	t.Run("logged in without key is a contract violation", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		api.On("Login", mock.Anything, credential, mock.Anything).
			Return(banking.LoginResponse{Status: banking.StatusLoggedIn}, nil).Once()

		err := flow.Submit(context.Background(), credential, sess, creds)
		assert.ErrorIs(t, err, banking.ErrContractViolation)
		assert.False(t, sess.IsAuthenticated())
	})

	t.Run("key not found surfaces as key error", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		api.On("Login", mock.Anything, credential, mock.Anything).
			Return(banking.LoginResponse{Status: banking.StatusError, Message: "Key not Found"}, nil).Once()

		err := flow.Submit(context.Background(), credential, sess, creds)
		assert.ErrorIs(t, err, banking.ErrKeyNotFound)
		assert.Equal(t, auth.ProviderSelected, sess.State)
	})

	t.Run("transport failure leaves session untouched", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		before := sess.Clone()
		boom := errors.New("connection reset")
		api.On("Login", mock.Anything, credential, mock.Anything).Return(banking.LoginResponse{}, boom).Once()

		err := flow.Submit(context.Background(), credential, sess, creds)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, before, sess)
	})

	t.Run("newer values override pending ones", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, sess := selected(t, api)
		sess.Pending = map[string]string{"username": "old", "document": "42"}
		api.On("Login", mock.Anything, credential, banking.LoginRequest{
			Provider: "acme",
			Fields:   map[string]string{"username": "jane", "password": "secret", "document": "42"},
		}).Return(banking.LoginResponse{Status: banking.StatusLoggedIn, Key: "k"}, nil).Once()

		require.NoError(t, flow.Submit(context.Background(), credential, sess, creds))
		api.AssertExpectations(t)
	})

	t.Run("rejects submission without login in progress", func(t *testing.T) {
		t.Parallel()

		flow := auth.NewFlow(&bankingtest.API{})
		err := flow.Submit(context.Background(), credential, nil, creds)
		assert.ErrorIs(t, err, auth.ErrIllegalTransition)

		err = flow.Submit(context.Background(), credential, &auth.Session{State: auth.LoggedIn, SessionKey: "abc"}, creds)
		assert.ErrorIs(t, err, auth.ErrIllegalTransition)
	})
}

func TestFlow_Select(t *testing.T) {
	t.Parallel()

	t.Run("refuses while logged in", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow := auth.NewFlow(api)
		_, err := flow.Select(context.Background(), credential, &auth.Session{State: auth.LoggedIn, SessionKey: "abc"}, "acme")
		assert.ErrorIs(t, err, auth.ErrIllegalTransition)
		api.AssertNotCalled(t, "ProviderDetail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replaces an unfinished login", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		flow, first := selected(t, api)
		api.On("ProviderDetail", mock.Anything, credential, "acme").Return(bankingtest.AcmeBank(), nil).Once()

		second, err := flow.Select(context.Background(), credential, first, "acme")
		require.NoError(t, err)
		assert.Equal(t, auth.ProviderSelected, second.State)
	})

	t.Run("provider without login fields is a contract violation", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		api.On("ProviderDetail", mock.Anything, credential, "empty").Return(banking.Provider{Code: "empty"}, nil)
		_, err := auth.NewFlow(api).Select(context.Background(), credential, nil, "empty")
		assert.ErrorIs(t, err, banking.ErrContractViolation)
	})
}

func TestFlow_Logout(t *testing.T) {
	t.Parallel()

	loggedIn := func() *auth.Session {
		return &auth.Session{State: auth.LoggedIn, Provider: bankingtest.AcmeBank(), SessionKey: "abc"}
	}

	t.Run("clears session on logged_out", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		api.On("Logout", mock.Anything, credential, "abc").Return(banking.LogoutResponse{Status: "logged_out"}, nil).Once()

		sess := loggedIn()
		require.NoError(t, auth.NewFlow(api).Logout(context.Background(), credential, sess))
		assert.Equal(t, auth.NoProvider, sess.State)
		assert.Empty(t, sess.SessionKey)
	})

	t.Run("keeps session on any other status", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		api.On("Logout", mock.Anything, credential, "abc").Return(banking.LogoutResponse{Status: "error"}, nil).Once()

		sess := loggedIn()
		err := auth.NewFlow(api).Logout(context.Background(), credential, sess)
		assert.ErrorIs(t, err, banking.ErrContractViolation)
		assert.Equal(t, loggedIn(), sess)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()

		api := &bankingtest.API{}
		err := auth.NewFlow(api).Logout(context.Background(), credential, &auth.Session{State: auth.ProviderSelected})
		assert.ErrorIs(t, err, auth.ErrIllegalTransition)
		api.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestState(t *testing.T) {
	t.Parallel()

	t.Run("transition table", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			from  auth.State
			event auth.Event
			to    auth.State
			ok    bool
		}{
			{auth.NoProvider, auth.EventSelect, auth.ProviderSelected, true},
			{auth.NoProvider, auth.EventSubmit, auth.NoProvider, false},
			{auth.ProviderSelected, auth.EventSubmit, auth.CredentialsSubmitted, true},
			{auth.InteractionRequired, auth.EventSubmit, auth.CredentialsSubmitted, true},
			{auth.CredentialsSubmitted, auth.EventLoggedIn, auth.LoggedIn, true},
			{auth.CredentialsSubmitted, auth.EventInteraction, auth.InteractionRequired, true},
			{auth.CredentialsSubmitted, auth.EventUnavailable, auth.NoProvider, true},
			{auth.LoggedIn, auth.EventSelect, auth.LoggedIn, false},
			{auth.LoggedIn, auth.EventLoggedOut, auth.NoProvider, true},
			{auth.ProviderSelected, auth.EventLoggedOut, auth.ProviderSelected, false},
		}
		for _, tt := range tests {
			got, err := tt.from.Next(tt.event)
			if tt.ok {
				require.NoError(t, err, "%s + %d", tt.from, tt.event)
			} else {
				require.ErrorIs(t, err, auth.ErrIllegalTransition)
			}
			assert.Equal(t, tt.to, got)
		}
	})

	t.Run("round trips through json by name", func(t *testing.T) {
		t.Parallel()

		in := &auth.Session{State: auth.InteractionRequired, Expected: []banking.AuthField{{Name: "otp"}}}
		b, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"state":"interaction_required"`)

		var out auth.Session
		require.NoError(t, json.Unmarshal(b, &out))
		assert.Equal(t, auth.InteractionRequired, out.State)

		var s auth.State
		assert.Error(t, s.UnmarshalText([]byte("bogus")))
	})
}
