package sim

// Middleware is one slice of a component's per-tick behavior.
type Middleware interface {
	// Tick processes a tick event. It returns true if progress is made.
	Tick() bool
}

// MiddlewareHolder runs a list of middleware on every tick.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware appends a middleware to the holder.
func (h *MiddlewareHolder) AddMiddleware(mw Middleware) {
	h.middlewares = append(h.middlewares, mw)
}

// Tick runs every middleware and reports whether any made progress.
func (h *MiddlewareHolder) Tick() bool {
	progress := false

	for _, mw := range h.middlewares {
		progress = mw.Tick() || progress
	}

	return progress
}
