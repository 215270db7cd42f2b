package prometeo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/integration/prometeo"
)

const apiKey = "test_api_key"

// serve starts a server answering every request with h and returns a client for it.
func serve(t *testing.T, h http.HandlerFunc) *prometeo.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := prometeo.New(prometeo.Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	_, err := prometeo.New(prometeo.Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestClient_ListProviders(t *testing.T) {
	t.Parallel()

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/provider/", r.URL.Path)
		assert.Equal(t, apiKey, r.Header.Get("X-API-Key"))
		reply(http.StatusOK, `{"status":"success","providers":[{"code":"test","country":"UY","name":"Test Bank"}]}`)(w, r)
	})

	providers, err := c.ListProviders(context.Background(), apiKey)
	require.NoError(t, err)
	assert.Equal(t, []banking.Provider{{Code: "test", Country: "UY", Name: "Test Bank"}}, providers)
}

func TestClient_Contract(t *testing.T) {
	t.Parallel()

	failures := []struct {
		name   string
		status int
		body   string
	}{
		{"not json", http.StatusOK, `oops`},
		{"empty object", http.StatusOK, `{}`},
		{"unrelated fields", http.StatusOK, `{"abc":"def"}`},
		{"unknown status", http.StatusOK, `{"status":"some-string"}`},
		{"error status", http.StatusOK, `{"status":"error"}`},
		{"missing payload", http.StatusOK, `{"status":"success"}`},
		{"error with payload", http.StatusOK, `{"status":"error","providers":null}`},
		{"redirect", http.StatusMultipleChoices, `{"status":"success","providers":null}`},
		{"bad request", http.StatusBadRequest, `{"status":"success","providers":null}`},
		{"server error", http.StatusInternalServerError, `{"status":"success","providers":null}`},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := serve(t, reply(tt.status, tt.body)).ListProviders(context.Background(), apiKey)
			assert.ErrorIs(t, err, banking.ErrContractViolation)
		})
	}

	t.Run("null payload is accepted", func(t *testing.T) {
		t.Parallel()

		providers, err := serve(t, reply(http.StatusOK, `{"status":"success","providers":null}`)).ListProviders(context.Background(), apiKey)
		require.NoError(t, err)
		assert.Empty(t, providers)
	})

	t.Run("key not found", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, reply(http.StatusNotFound, `{"message":"Key not Found"}`)).Accounts(context.Background(), apiKey, "k")
		assert.ErrorIs(t, err, banking.ErrKeyNotFound)
	})

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, reply(http.StatusForbidden, `{"message":"Forbidden"}`)).ListProviders(context.Background(), "bad")
		assert.ErrorIs(t, err, banking.ErrUnauthorized)
	})
}

func TestClient_ProviderDetail(t *testing.T) {
	t.Parallel()

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/provider/test/", r.URL.Path)
		reply(http.StatusOK, `{"status":"success","provider":{
			"name":"test","country":"UY","logo":"https://x/logo.png",
			"bank":{"code":"test","name":"Test Bank"},
			"auth_fields":[
				{"name":"username","type":"text","interactive":false,"optional":false,"label_en":"User","label_es":"Usuario"},
				{"name":"otp","type":"text","interactive":true,"optional":false,"label_en":"Code","label_es":"Codigo"}
			]}}`)(w, r)
	})

	p, err := c.ProviderDetail(context.Background(), apiKey, "test")
	require.NoError(t, err)
	assert.Equal(t, "test", p.Code)
	assert.Equal(t, "Test Bank", p.Name)
	assert.Equal(t, "https://x/logo.png", p.Logo)
	require.Len(t, p.AuthFields, 2)
	assert.True(t, p.AuthFields[1].Interactive)
	assert.Equal(t, "Usuario", p.AuthFields[0].Label("es"))
	assert.Len(t, p.RequiredFields(), 1)
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("posts a form with the previous key", func(t *testing.T) {
		t.Parallel()

		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/login/", r.URL.Path)
			assert.Equal(t, "tmp", r.URL.Query().Get("key"))
			assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "test", r.PostForm.Get("provider"))
			assert.Equal(t, "12345", r.PostForm.Get("username"))
			assert.Equal(t, "gfdsa", r.PostForm.Get("password"))
			reply(http.StatusOK, `{"status":"logged_in","key":"abc"}`)(w, r)
		})

		resp, err := c.Login(context.Background(), apiKey, banking.LoginRequest{
			Provider: "test",
			Key:      "tmp",
			Fields:   map[string]string{"username": "12345", "password": "gfdsa"},
		})
		require.NoError(t, err)
		assert.Equal(t, banking.LoginResponse{Status: "logged_in", Key: "abc"}, resp)
	})

	t.Run("returns outcome statuses as reported", func(t *testing.T) {
		t.Parallel()

		c := serve(t, reply(http.StatusOK, `{"status":"interaction_required","field":"otp","context":"Enter the code","key":"tmp"}`))
		resp, err := c.Login(context.Background(), apiKey, banking.LoginRequest{Provider: "test"})
		require.NoError(t, err)
		assert.Equal(t, "interaction_required", resp.Status)
		assert.Equal(t, "otp", resp.Field)
		assert.Equal(t, "Enter the code", resp.Context)

		c = serve(t, reply(http.StatusOK, `{"status":"error","message":"Unauthorized provider"}`))
		resp, err = c.Login(context.Background(), apiKey, banking.LoginRequest{Provider: "test"})
		require.NoError(t, err)
		assert.Equal(t, banking.MessageUnauthorizedProvider, resp.Message)
	})

	t.Run("key not found", func(t *testing.T) {
		t.Parallel()

		c := serve(t, reply(http.StatusOK, `{"status":"error","message":"Key not Found"}`))
		_, err := c.Login(context.Background(), apiKey, banking.LoginRequest{Provider: "test"})
		assert.ErrorIs(t, err, banking.ErrKeyNotFound)
	})

	t.Run("response without status", func(t *testing.T) {
		t.Parallel()

		_, err := serve(t, reply(http.StatusOK, `{"key":"abc"}`)).Login(context.Background(), apiKey, banking.LoginRequest{Provider: "test"})
		assert.ErrorIs(t, err, banking.ErrContractViolation)
	})
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logout/", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("key"))
		reply(http.StatusOK, `{"status":"logged_out"}`)(w, r)
	})

	resp, err := c.Logout(context.Background(), apiKey, "abc")
	require.NoError(t, err)
	assert.Equal(t, banking.StatusLoggedOut, resp.Status)
}

func TestClient_AccountMovements(t *testing.T) {
	t.Parallel()

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/001-123/movement", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "abc", q.Get("key"))
		assert.Equal(t, "UYU", q.Get("currency"))
		assert.Equal(t, "15/03/2021", q.Get("date_start"))
		assert.Equal(t, "20/03/2021", q.Get("date_end"))
		reply(http.StatusOK, `{"status":"success","movements":[
			{"id":"1","reference":"r","date":"16/03/2021","detail":"Coffee","debit":3.5},
			{"id":"2","date":"17/03/2021","detail":"Salary","debit":null,"credit":"100.00"}
		]}`)(w, r)
	})

	movements, err := c.AccountMovements(context.Background(), apiKey, "abc", banking.MovementQuery{
		Number:   "001-123",
		Currency: "UYU",
		Start:    time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2021, time.March, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.True(t, movements[0].Amount().Equal(decimal.RequireFromString("-3.5")))
	assert.True(t, movements[1].Amount().Equal(decimal.NewFromInt(100)))
}

func TestClient_Cards(t *testing.T) {
	t.Parallel()

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/credit-card/", r.URL.Path)
		reply(http.StatusOK, `{"status":"success","credit_cards":[
			{"id":"c","name":"Visa","number":"4111","close_date":"01/07/2021","due_date":"10/07/2021","balance_local":1200.5,"balance_dollar":"10"}
		]}`)(w, r)
	})

	cards, err := c.Cards(context.Background(), apiKey, "abc")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "4111", cards[0].Number)
	assert.True(t, cards[0].BalanceLocal.Equal(decimal.RequireFromString("1200.5")))
}

func TestClient_Branches(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/provider/test/branches", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "11300", r.URL.Query().Get("zip"))
		reply(http.StatusOK, `{"status":"success","branches":[{"name":"Pocitos","address":"Av. Brasil 123"}]}`)(w, r)
	})
	mux.HandleFunc("/provider/test/atms", reply(http.StatusOK, `{"status":"success","atms":[]}`))
	c := serve(t, mux.ServeHTTP)

	branches, err := c.Branches(context.Background(), apiKey, "test", "11300")
	require.NoError(t, err)
	assert.Equal(t, []banking.Branch{{Name: "Pocitos", Address: "Av. Brasil 123"}}, branches)

	atms, err := c.ATMs(context.Background(), apiKey, "test", "11300")
	require.NoError(t, err)
	assert.Empty(t, atms)
}

func TestClient_ClientInfo(t *testing.T) {
	t.Parallel()

	c := serve(t, reply(http.StatusOK, `{"status":"success","info":{"name":"Jane","document":"1.234.567-8","email":"jane@example.com"}}`))
	info, err := c.ClientInfo(context.Background(), apiKey, "abc")
	require.NoError(t, err)
	assert.Equal(t, banking.ClientInfo{Name: "Jane", Document: "1.234.567-8", Email: "jane@example.com"}, info)
}

func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	c := serve(t, reply(http.StatusOK, `{"status":"success","providers":[]}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProviders(ctx, apiKey)
	assert.ErrorIs(t, err, context.Canceled)
}
