// Package logger builds slog loggers and provides attribute helpers used
// across the chat service.
//
// # Construction
//
//	log := logger.New(logger.WithDevelopment("bankchat"))
//	log := logger.New(
//		logger.WithProduction("bankchat"),
//		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
//	)
//
// Context values can be copied into every record logged through the
// *Context methods:
//
//	log := logger.New(
//		logger.WithProduction("bankchat"),
//		logger.WithContextValue("session_id", sessionIDKey{}),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for missing input so they can be passed
// unconditionally:
//
//	log.ErrorContext(ctx, "login failed",
//		logger.Provider(code),
//		logger.Status(resp.Status),
//		logger.Error(err),
//	)
//
// Credentials, session keys and login field values must never be logged.
package logger
