package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/apierr"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/metric"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/middleware"
	"github.com/tuanvumaihuynh/stock-ledger/internal/http/swagger"
	"github.com/tuanvumaihuynh/stock-ledger/internal/service"
	"github.com/tuanvumaihuynh/stock-ledger/internal/storage/db"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Services groups the application services exposed over HTTP.
type Services struct {
	Product     service.ProductService
	Stock       service.StockService
	Report      service.ReportService
	LedgerQuery service.LedgerQueryService
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator *validator.DefaultValidator
	health    db.HealthChecker

	svcs Services
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	health db.HealthChecker,
	svcs Services,
) (*Service, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("new validator: %w", err)
	}

	return &Service{
		cfg:       cfg,
		logger:    log.With(slog.String("service", "http")),
		metrics:   metric.New(),
		validator: v,
		health:    health,
		svcs:      svcs,
	}, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", slog.Any("error", err))
		}
	}()

	s.logger.Info("http server listening", slog.String("addr", srv.Addr))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Secure(s.cfg.IsDevelopment),
		middleware.RateLimit(s.cfg.RateLimit),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	products := newProductHandler(s.svcs.Product, s.svcs.Report, s.validator)
	stock := newStockHandler(s.svcs.Stock, s.validator)
	ledger := newLedgerHandler(s.svcs.LedgerQuery)
	reports := newReportHandler(s.svcs.Report)

	r.Get("/healthz", s.handle(s.healthz))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handle(products.ListProducts))
			r.Post("/", s.handle(products.CreateProduct))
			r.Get("/sku/{sku}", s.handle(products.GetProductBySku))
			r.Get("/{id}", s.handle(products.GetProduct))
			r.Patch("/{id}", s.handle(products.UpdateProduct))
			r.Delete("/{id}", s.handle(products.RemoveProduct))
			r.Get("/{id}/stats", s.handle(products.ProductStats))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", s.handle(ledger.ListPurchases))
			r.Post("/", s.handle(stock.CreatePurchase))
			r.Get("/{id}", s.handle(stock.GetPurchase))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", s.handle(ledger.ListSales))
			r.Post("/", s.handle(stock.CreateSale))
			r.Get("/{id}", s.handle(stock.GetSale))
		})

		r.Get("/dues", s.handle(ledger.ListDues))
		r.Get("/reports", s.handle(reports.GenerateReport))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apierr.ErrorResponse{
			Code:    "routeNotFound",
			Message: "route not found",
		})
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is an HTTP handler that reports failures as errors so they are
// rendered in one place.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) healthz(w http.ResponseWriter, r *http.Request) error {
	ok, err := s.health.IsHealthy(r.Context())
	if err != nil || !ok {
		s.logger.WarnContext(r.Context(), "database unhealthy", slog.Any("error", err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return nil
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
