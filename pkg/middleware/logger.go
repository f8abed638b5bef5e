package middleware

import (
	"log/slog"

	"github.com/riogod/router-sub000/pkg/events"
)

// Logger returns an attachment that logs every transition event through the
// given slog logger. A nil logger falls back to slog.Default().
func Logger(logger *slog.Logger) events.Attachment {
	if logger == nil {
		logger = slog.Default()
	}

	return func(bus *events.Bus) func() {
		unsubs := []func(){
			bus.Subscribe(events.RouterStart, func(p events.Payload) {
				logger.Info("router started", "route", stateRoute(p.ToState))
			}),
			bus.Subscribe(events.RouterStop, func(p events.Payload) {
				logger.Info("router stopped")
			}),
			bus.Subscribe(events.TransitionStart, func(p events.Payload) {
				logger.Debug("transition started",
					"to", stateRoute(p.ToState),
					"from", stateRoute(p.FromState))
			}),
			bus.Subscribe(events.TransitionSuccess, func(p events.Payload) {
				logger.Info("transition committed",
					"to", stateRoute(p.ToState),
					"path", statePath(p.ToState))
			}),
			bus.Subscribe(events.TransitionError, func(p events.Payload) {
				logger.Error("transition failed",
					"to", stateRoute(p.ToState),
					"error", p.Err)
			}),
			bus.Subscribe(events.TransitionCancel, func(p events.Payload) {
				logger.Debug("transition cancelled",
					"to", stateRoute(p.ToState))
			}),
		}
		return func() {
			for _, unsub := range unsubs {
				unsub()
			}
		}
	}
}
