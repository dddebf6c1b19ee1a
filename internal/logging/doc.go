// Package logging provides structured logging for dogfight debates.
//
// It wraps log/slog with a JSON handler and child loggers that carry the
// debate context (debate ID, round, phase, actor) on every entry, so a log
// file can be filtered per actor or per round after the fact.
//
// All types in this package are safe for concurrent use. Child loggers created
// via With* methods share the parent's destination; closing any of them closes
// it for all.
//
// # Usage
//
//	logger, err := logging.NewLogger(logDir, "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	roundLog := logger.WithDebate(id).WithRound(2)
//	roundLog.WithPhase("vote").WithActor("Security Engineer").Info("vote recorded", "agree", true)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"vote recorded","debate_id":"...","round":2,"phase":"vote","actor":"Security Engineer","agree":true}
//
// Long-running servers use [NewLoggerWithRotation], which backs the logger with
// a [RotatingWriter]. When logging is disabled callers use [NopLogger] rather
// than nil checks.
package logging
