package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/checkout"
	"github.com/noah-isme/toko-checkout/internal/config"
	"github.com/noah-isme/toko-checkout/internal/events"
	"github.com/noah-isme/toko-checkout/internal/health"
	"github.com/noah-isme/toko-checkout/internal/lock"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/ratelimit"
	"github.com/noah-isme/toko-checkout/internal/security"
	"github.com/noah-isme/toko-checkout/internal/shipping"
)

const maxBodyBytes = 1 << 20

// Dependencies holds the shared services behind the HTTP API.
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Catalog     *catalog.Store
	Events      *events.MemoryStore
	Bus         *events.Bus
	Redis       *redis.Client
	Locker      lock.Locker
	Engine      *checkout.Engine
	Registry    *prometheus.Registry
	HTTPMetrics *obs.HTTPMetrics
	Tracing     bool
}

// Options customises New. A nil Redis client selects the in-process lock. A nil Registry
// registers metrics on the Prometheus default registry.
type Options struct {
	Redis    *redis.Client
	Registry *prometheus.Registry
	Tracing  bool
}

// New builds the catalog, event bus, lock and checkout engine described by cfg.
func New(cfg *config.Config, logger zerolog.Logger, opts Options) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Events:   &events.MemoryStore{},
		Redis:    opts.Redis,
		Registry: opts.Registry,
		Tracing:  opts.Tracing,
	}
	deps.Bus = &events.Bus{
		Store:     deps.Events,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	if opts.Redis != nil {
		deps.Locker = lock.Redis{Client: opts.Redis}
	} else {
		deps.Locker = lock.NewLocal()
	}
	deps.Catalog = catalog.NewStore(catalog.WithLocker(deps.Locker, cfg.LockTTL))

	if cfg.MetricsEnabled {
		var reg prometheus.Registerer
		if opts.Registry != nil {
			reg = opts.Registry
		}
		obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, reg)
		deps.HTTPMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, reg)
	}

	fee := cfg.ShippingFlatRate
	engine, err := checkout.NewEngine(checkout.Config{
		Catalog:     deps.Catalog,
		Dispatcher:  shipping.LogDispatcher{Logger: logger, Events: deps.Bus},
		Events:      deps.Bus,
		ShippingFee: &fee,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	deps.Engine = engine

	if cfg.SeedDemoCatalog {
		items, err := catalog.Seed(deps.Catalog, catalog.DemoItems())
		if err != nil {
			return nil, err
		}
		logger.Info().Int("items", len(items)).Msg("demo catalog seeded")
	}
	return deps, nil
}

// Router mounts every endpoint with the standard middleware chain.
func (d *Dependencies) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers)
	r.Use(security.BodyLimit{Max: maxBodyBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.allowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if d.Config.MetricsEnabled {
		if d.Registry != nil {
			r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
		} else {
			r.Handle("/metrics", promhttp.Handler())
		}
	}

	healthHandler := health.Handler{Checker: health.RedisChecker{Client: d.Redis}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Route("/items", catalog.NewHandler(catalog.HandlerConfig{Store: d.Catalog}).Routes)
		v.Route("/customers", checkout.NewHandler(checkout.HandlerConfig{
			Engine:             d.Engine,
			CheckoutMiddleware: []func(http.Handler) http.Handler{d.checkoutLimit().Middleware},
		}).Routes)
	})
	return r
}

// checkoutLimit caps checkout attempts per customer. It is inert without Redis.
func (d *Dependencies) checkoutLimit() ratelimit.Handler {
	return ratelimit.Handler{
		Limiter: ratelimit.Limiter{
			Client: d.Redis,
			Prefix: "ratelimit:checkout:",
			Window: d.Config.CheckoutRateWindow,
			Max:    d.Config.CheckoutRateLimit,
		},
		Key:    func(r *http.Request) string { return chi.URLParam(r, "id") },
		Logger: d.Logger,
	}
}

func (d *Dependencies) allowedOrigins() []string {
	if len(d.Config.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return d.Config.CORSAllowedOrigins
}
