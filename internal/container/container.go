package container

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"distlab/adapters/excel"
	"distlab/adapters/stats/families"
	"distlab/app"
	"distlab/internal"
	"distlab/internal/api"
	"distlab/internal/comparison"
	"distlab/internal/config"
	"distlab/internal/resolver"
	"distlab/internal/statistics"
	"distlab/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Core
	Registry   *families.Registry
	Resolver   *resolver.Resolver
	Calculator *statistics.Calculator
	Comparison *comparison.Engine

	// Application services
	Explorer *app.ExplorerService
	Exporter *excel.Exporter

	// Presentation
	API *api.Server
	UI  *ui.App
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)),
	}
	c.initCore()

	if err := c.initPresentation(); err != nil {
		return nil, fmt.Errorf("failed to initialize presentation: %w", err)
	}

	c.Logger.Debug("Container initialized with %d distribution families", len(c.Registry.IDs()))
	return c, nil
}

// initCore wires the stateless core around one shared registry
func (c *Container) initCore() {
	c.Registry = families.NewRegistry()
	c.Resolver = resolver.New(c.Registry)
	c.Calculator = statistics.NewCalculator(c.Registry)
	c.Comparison = comparison.NewEngine(c.Registry)
	c.Explorer = app.NewExplorerService(c.Resolver, c.Calculator, c.Comparison, c.Logger)
	c.Exporter = excel.NewExporter(excel.DefaultExportConfig())
}

// initPresentation builds the JSON API and the HTML explorer
func (c *Container) initPresentation() error {
	gin.SetMode(c.Config.Server.GinMode)
	c.API = api.NewServer(c.Explorer, c.Exporter, c.Logger)

	var err error
	c.UI, err = ui.NewApp(c.Explorer, c.Logger)
	return err
}

// Run listens on the configured ports and serves until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	apiListener, err := net.Listen("tcp", ":"+c.Config.Server.APIPort)
	if err != nil {
		return fmt.Errorf("api listener: %w", err)
	}
	uiListener, err := net.Listen("tcp", ":"+c.Config.Server.UIPort)
	if err != nil {
		apiListener.Close()
		return fmt.Errorf("ui listener: %w", err)
	}
	return c.Serve(ctx, apiListener, uiListener)
}

// Serve runs the API and UI servers on the given listeners. When ctx is
// cancelled both are shut down within the configured timeout.
func (c *Container) Serve(ctx context.Context, apiListener, uiListener net.Listener) error {
	servers := []struct {
		name     string
		server   *http.Server
		listener net.Listener
	}{
		{"api", &http.Server{Handler: c.API.Handler()}, apiListener},
		{"ui", &http.Server{Handler: c.UI.Handler()}, uiListener},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		s := s
		g.Go(func() error {
			c.Logger.Info("%s server listening on %s", s.name, s.listener.Addr())
			if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s server: %w", s.name, err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
			defer cancel()
			c.Logger.Info("%s server shutting down", s.name)
			return s.server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
