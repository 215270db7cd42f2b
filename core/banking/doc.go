// Package banking defines the contract of the remote banking-aggregation API
// consumed by the chat engine.
//
// The package is transport-agnostic: it holds the value types exchanged with
// the remote service, the API interface implemented by concrete clients (see
// integration/prometeo) and the sentinel errors shared by every
// implementation.
//
// # Providers
//
// A Provider describes a bank reachable through the aggregator together with
// the fields its login form requires:
//
//	p, err := api.ProviderDetail(ctx, credential, "acme")
//	if err != nil {
//		return err
//	}
//	for _, f := range p.RequiredFields() {
//		fmt.Println(f.Name, f.Label("es"))
//	}
//
// # Login
//
// Login returns the raw outcome reported by the remote service. Callers must
// branch on LoginResponse.Status exactly:
//
//	switch resp.Status {
//	case banking.StatusLoggedIn:
//	case banking.StatusInteractionRequired:
//	case banking.StatusWrongCredentials:
//	case banking.StatusError:
//	}
//
// # Errors
//
// Implementations report malformed or unexpected responses as
// ErrContractViolation, a rejected session key as ErrKeyNotFound and a
// rejected API credential as ErrUnauthorized. Use errors.Is to test for them.
package banking
