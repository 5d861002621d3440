package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/simorq_mailer/config"
	"github.com/Alijeyrad/simorq_mailer/internal/api/http/handler"
	"github.com/Alijeyrad/simorq_mailer/internal/service/contact"
	"github.com/Alijeyrad/simorq_mailer/pkg/email"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg        *config.Config
	Settings   email.SettingsSource
	ContactSvc contact.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	emailH := handler.NewEmailHandler(r.p.ContactSvc)

	api := app.Group("/api")
	r.registerEmailRoutes(api, emailH)
}

func (r *Router) registerEmailRoutes(api fiber.Router, h *handler.EmailHandler) {
	api.Post("/email", h.Send)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	// Ready once the relay settings would pass send-time validation.
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.p.Settings.Settings().Validate() == nil },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
