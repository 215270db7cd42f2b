package banking

import "context"

// API is the remote banking-aggregation service. Every call is blocking and
// authenticated with the caller's API credential. Implementations must be
// safe for concurrent use.
type API interface {
	ListProviders(ctx context.Context, credential string) ([]Provider, error)
	ProviderDetail(ctx context.Context, credential, code string) (Provider, error)

	Login(ctx context.Context, credential string, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, credential, key string) (LogoutResponse, error)

	ClientInfo(ctx context.Context, credential, key string) (ClientInfo, error)
	Accounts(ctx context.Context, credential, key string) ([]Account, error)
	Cards(ctx context.Context, credential, key string) ([]Card, error)
	AccountMovements(ctx context.Context, credential, key string, q MovementQuery) ([]Movement, error)
	CardMovements(ctx context.Context, credential, key string, q MovementQuery) ([]Movement, error)

	Branches(ctx context.Context, credential, provider, zip string) ([]Branch, error)
	ATMs(ctx context.Context, credential, provider, zip string) ([]Branch, error)
}
