package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/models"
)

const clientRole = "go-photo-sync-client"

type rootFlags struct {
	address string
	apiKey  string
	timeout time.Duration

	library       string
	exchangeToken bool
	subject       string
}

// App is the command line client. Configuration, the adapter and the
// services are resolved once per invocation, before the command runs.
type App struct {
	root      *cobra.Command
	buildInfo models.AppBuildInfo
	flags     rootFlags

	fs         afero.Fs
	loadConfig func() (*config.ClientConfig, error)

	logger   *logger.Logger
	adapter  adapter.ServerAdapter
	services *service.ClientServices
}

type Option func(*App)

// WithAdapter replaces the HTTP adapter built from configuration.
func WithAdapter(a adapter.ServerAdapter) Option {
	return func(app *App) { app.adapter = a }
}

// WithConfigLoader replaces config.GetClientConfig.
func WithConfigLoader(load func() (*config.ClientConfig, error)) Option {
	return func(app *App) { app.loadConfig = load }
}

// WithFs sets the filesystem holding the library and metadata files.
func WithFs(fs afero.Fs) Option {
	return func(app *App) { app.fs = fs }
}

func WithLogger(l *logger.Logger) Option {
	return func(app *App) { app.logger = l }
}

// WithOutput redirects command output and errors to w.
func WithOutput(w io.Writer) Option {
	return func(app *App) {
		app.root.SetOut(w)
		app.root.SetErr(w)
	}
}

func NewApp(buildInfo models.AppBuildInfo, opts ...Option) *App {
	a := &App{
		buildInfo:  buildInfo,
		fs:         afero.NewOsFs(),
		loadConfig: config.GetClientConfig,
	}

	a.root = &cobra.Command{
		Use:               "photosync",
		Short:             "Push a photo library to a go-photo-sync server",
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
	}

	pf := a.root.PersistentFlags()
	pf.StringVarP(&a.flags.address, "address", "a", "", "server base URL (ADAPTER_ADDRESS)")
	pf.StringVarP(&a.flags.apiKey, "api-key", "k", "", "shared API key (ADAPTER_API_KEY)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "request timeout (ADAPTER_REQUEST_TIMEOUT)")
	pf.StringVarP(&a.flags.library, "library", "l", ".", "photo library directory")
	pf.BoolVar(&a.flags.exchangeToken, "token", false, "exchange the API key for a bearer token first")
	pf.StringVar(&a.flags.subject, "subject", "client", "client label of the bearer token")

	a.root.AddCommand(
		a.versionCommand(),
		a.openCommand(),
		a.incrementalCommand(),
		a.reconcileCommand(),
		a.uploadCommand(),
		a.verifyCommand(),
		a.statusCommand(),
		a.completeCommand(),
		a.pushCommand(),
	)

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the command line of the process. SIGINT and SIGTERM cancel
// the command context.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.Execute(ctx, os.Args[1:])
}

// Execute runs the command line args.
func (a *App) Execute(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

func (a *App) prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err = cfg.Override(a.flags.address, a.flags.apiKey, a.flags.timeout); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}

	if a.logger == nil {
		a.logger = logger.NewClientLogger(clientRole, cfg.App.LogFile)
	}
	if a.adapter == nil {
		a.adapter, err = adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, a.logger)
		if err != nil {
			return fmt.Errorf("create server adapter: %w", err)
		}
	}

	library, err := filepath.Abs(a.flags.library)
	if err != nil {
		return fmt.Errorf("resolve library: %w", err)
	}
	a.services = service.NewClientServices(afero.NewBasePathFs(a.fs, library), a.adapter, a.logger)

	if a.flags.exchangeToken {
		if err = a.services.AuthService.Authenticate(cmd.Context(), a.flags.subject); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) print(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
