package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/procflow/internal/server"
	"github.com/matzehuels/procflow/pkg/observability"
	"github.com/matzehuels/procflow/pkg/store"
)

// cleanupInterval is how often the server purges expired layouts.
const cleanupInterval = 10 * time.Minute

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	envFile string
	noCache bool
	tracing bool
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Environment variables are loaded from --env-file (default .env) when present.
PROCFLOW_ADDR, PROCFLOW_REDIS_URL and PROCFLOW_MONGO_URI override the config
file. Layouts are stored in memory unless [server] store selects file or
mongo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.tracing, "tracing", false, "emit OpenTelemetry spans for pipeline stages")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if err := loadEnv(opts.envFile); err != nil {
		return err
	}
	cfg := c.config()
	cfg.applyEnv()
	if err := cfg.validateAndSetDefaults(); err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	st, err := newStore(ctx, cfg.Server)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.Background())

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	pipelineHooks := observability.PipelineHooks(metrics)
	if opts.tracing {
		pipelineHooks = observability.MultiPipeline(metrics, observability.NewTracer(nil))
	}
	observability.SetPipelineHooks(pipelineHooks)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	srv, err := server.New(server.Options{
		Addr:     cfg.Server.Addr,
		Store:    st,
		Runner:   runner,
		Gatherer: reg,
		TTL:      cfg.Server.TTL.Duration,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	go srv.RunCleanup(ctx, cleanupInterval)

	c.Logger.Info("starting server", "store", cfg.Server.Store, "cache", cfg.Cache.Backend)
	if err := srv.ListenAndServe(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// loadEnv loads a dotenv file if it exists. Variables already set in the
// environment win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// newStore opens the configured layout store.
func newStore(ctx context.Context, cfg ServerConfig) (store.Store, error) {
	switch cfg.Store {
	case backendFile:
		return store.NewFileStore(cfg.StoreDir)
	case backendMongo:
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:      cfg.MongoURI,
			Database: cfg.Database,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}
