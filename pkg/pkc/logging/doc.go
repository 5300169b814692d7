// Package logging provides the logging facade used by the encryption engines.
//
// Logger wraps the context-aware subset of log/slog. Engines log key
// generation progress and failures at Debug and Warn, never secret material:
//
//	logger := logging.New(nil) // slog.Default()
//	logger.Info(ctx, "keys generated", "alg", "rsa", "bits", 2048,
//	    logging.Redacted("d"))
//
// NewZerolog adapts a zerolog.Logger to the same interface, and Discard is the
// silent default when no logger is configured.
package logging
