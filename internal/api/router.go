package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/api/handler"
	apimw "github.com/M-Chris/testing-hello-worlds-on-common-langs/internal/api/middleware"
)

// RequestHooks are the metric callbacks applied to every request.
// Both fields are optional.
type RequestHooks struct {
	OnStart func()
	OnDone  func(status int, latency time.Duration)
}

// NewRouter builds the application router. It registers exactly one route,
// GET /; every other method or path gets chi's default 404 or 405.
func NewRouter(logger *zap.Logger, hooks RequestHooks) http.Handler {
	r := chi.NewRouter()

	// Instrument wraps Recoverer so a recovered panic is counted as a 500.
	r.Use(apimw.Instrument(hooks.OnStart, hooks.OnDone))
	r.Use(chimw.Recoverer)
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(logger))

	hh := handler.NewHelloHandler()
	r.Get("/", hh.Hello)

	return r
}
