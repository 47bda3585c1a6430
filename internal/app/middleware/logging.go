package middleware

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/app/apperr"
	"stayhub/internal/app/commands"
	"stayhub/internal/app/queries"
)

// Logging records command outcomes. Expected failures (validation, conflicts)
// log at info; backend failures at error.
func Logging(logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		if logger == nil {
			return next
		}
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, cmd)
			logOutcome(ctx, logger, "command", cmd.Key(), time.Since(start), err)
			return res, err
		})
	}
}

func QueryLogging(logger *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		if logger == nil {
			return next
		}
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := nextFn(ctx, q)
			if err != nil {
				logOutcome(ctx, logger, "query", q.Key(), time.Since(start), err)
			}
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, logger *slog.Logger, kind, key string, took time.Duration, err error) {
	if err == nil {
		logger.DebugContext(ctx, kind+" handled", "key", key, "duration", took)
		return
	}
	errKind := apperr.KindOf(err)
	level := slog.LevelInfo
	if errKind == apperr.KindBackendFailure {
		level = slog.LevelError
	}
	logger.Log(ctx, level, kind+" failed", "key", key, "kind", errKind, "duration", took, "error", err)
}
