package bootstrap

import (
	"context"
	"log/slog"
)

// GracefulShutdown stops the app in dependency order:
// 1. Scheduler (no new ticks, wait for a running one)
// 2. Discord gateway (no new interactions)
// 3. Interaction workers (drain queued interactions)
// 4. Final registry flush, then storage close
// 5. Ops HTTP server
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, app *App) {
	slog.Info(LogMsgShuttingDown)

	if err := app.Scheduler.Stop(ctx); err != nil {
		slog.Error(LogMsgSchedulerStopFailed, "error", err)
	}

	if err := app.Bot.Stop(); err != nil {
		slog.Error(LogMsgBotStopFailed, "error", err)
	}

	if err := app.Pool.Stop(ctx); err != nil {
		slog.Error(LogMsgPoolStopFailed, "error", err)
	}

	if err := app.Registry.Flush(ctx); err != nil {
		slog.Error(LogMsgFinalFlushFailed, "error", err)
	}
	if err := app.Store.Close(); err != nil {
		slog.Error(LogMsgStoreCloseFailed, "error", err)
	}

	if app.Server != nil {
		if err := app.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgStopped)
}
