// Package chat is the conversational engine: it turns free text into
// banking operations.
//
// A Dispatcher owns one rule cascade per language, compiled from the
// embedded pattern sets, and the bot message catalogs. Each turn is
// processed against a caller-provided SessionState:
//
//	d, err := chat.NewDispatcher(api, chat.WithLogger(log))
//
//	state, err := d.InitializeSession(ctx, apiKey, "es")
//	res, err := d.HandleTurn(ctx, state, "movimientos de la cuenta 123 del mes pasado")
//	res, err = d.SubmitCredentials(ctx, state, map[string]string{"username": "u", "password": "p"})
//
// A turn first checks whether the text names a known provider; if it does
// and no login has completed, the provider login starts. Otherwise the text
// runs through the cascade and the first rule whose trigger matches and
// whose precondition holds produces the result. Unmatched text yields a
// fallback message.
//
// Results are messages, modal requests for login fields, or rejections.
// Rejections are recoverable and meant for the user; errors returned by
// HandleTurn and SubmitCredentials are remote failures, after which the
// session state is unchanged.
//
// SessionState is not synchronized. Callers must serialize turns of the
// same session.
package chat
