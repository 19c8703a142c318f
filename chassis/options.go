package chassis

import "log/slog"

// Option configures a Controller at construction time.
type Option func(*Controller)

// Logger sets the structured logger the façade uses for its own
// diagnostics (distinct from the engine's logger, which is configured
// separately via engine.Logger). Defaults to slog.Default().
func Logger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}
