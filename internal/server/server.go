// Package server is the HTTP routing layer. Handlers only translate between
// requests and the submission coordinator, the ranking pipeline and the corpus.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mohammad-safakhou/roomfinder/config"
	"github.com/mohammad-safakhou/roomfinder/internal/corpus"
	"github.com/mohammad-safakhou/roomfinder/internal/ranking"
	"github.com/mohammad-safakhou/roomfinder/internal/submission"
	"github.com/mohammad-safakhou/roomfinder/internal/telemetry"
	"github.com/mohammad-safakhou/roomfinder/internal/validation"
)

// Deps are the core components the routes are wired to.
type Deps struct {
	Corpus      *corpus.Index
	Schemas     *validation.Registry
	Coordinator *submission.Coordinator
	Pipeline    *ranking.Pipeline
	Metrics     *telemetry.Metrics
	Logger      *zap.Logger
}

// CustomValidator plugs go-playground/validator into echo's c.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// New builds the echo instance with every route registered.
func New(cfg *config.Config, d Deps) (*echo.Echo, error) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	logger := d.Logger.Named("http")

	roomSchema, err := d.Schemas.Lookup(cfg.Schemas.Room)
	if err != nil {
		return nil, fmt.Errorf("room schema: %w", err)
	}
	deleteSchema, err := d.Schemas.Lookup(cfg.Schemas.Delete)
	if err != nil {
		return nil, fmt.Errorf("delete schema: %w", err)
	}
	promptSchema, err := d.Schemas.Lookup(cfg.Schemas.Prompt)
	if err != nil {
		return nil, fmt.Errorf("prompt schema: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if cfg.Telemetry.Enabled {
		e.GET(cfg.Telemetry.MetricsPath, echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")
	rooms := &RoomsHandler{
		Corpus:      d.Corpus,
		Coordinator: d.Coordinator,
		Schemas:     d.Schemas,
		Room:        roomSchema,
		Delete:      deleteSchema,
		Logger:      logger,
	}
	rooms.Register(api.Group("/rooms"))

	rankings := &RankingsHandler{Corpus: d.Corpus, Pipeline: d.Pipeline, Prompt: promptSchema}
	rankings.Register(api.Group("/rankings"))

	schemas := &SchemasHandler{Registry: d.Schemas}
	schemas.Register(api.Group("/schemas"))

	return e, nil
}

// errorHandler writes {"error": msg} and logs every failed request.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Warn("request failed",
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("remote_ip", c.RealIP()),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
}

// Run serves e on cfg.Address until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func Run(ctx context.Context, cfg config.ServerConfig, e *echo.Echo, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("address", cfg.Address))
		if err := e.Start(cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
