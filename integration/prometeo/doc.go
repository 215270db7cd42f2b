// Package prometeo implements banking.API over the Prometeo banking HTTP API.
//
// Every request carries the caller's API key in the X-API-Key header. Responses
// are checked against the documented contract: a payload that is not a 200 with
// status "success" and the expected field is reported as
// banking.ErrContractViolation. A "Key not Found" message maps to
// banking.ErrKeyNotFound and a 401 or 403 to banking.ErrUnauthorized.
//
// Usage:
//
//	var cfg prometeo.Config
//	config.MustLoad(&cfg)
//
//	client, err := prometeo.New(cfg, prometeo.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	providers, err := client.ListProviders(ctx, apiKey)
package prometeo
