package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/afgraph/pkg/cache"
	"github.com/matzehuels/afgraph/pkg/config"
	"github.com/matzehuels/afgraph/pkg/engine"
	"github.com/matzehuels/afgraph/pkg/engine/afg"
	"github.com/matzehuels/afgraph/pkg/engine/fasta"
	"github.com/matzehuels/afgraph/pkg/engine/mongostore"
	"github.com/matzehuels/afgraph/pkg/errors"
	"github.com/matzehuels/afgraph/pkg/layout"
	"github.com/matzehuels/afgraph/pkg/render"
)

// connFlags are the persistent connection flags shared by all commands.
// They override values from the connection file.
type connFlags struct {
	config   string
	location string
	database string
	username string
	password string
	cache    string
	noCache  bool
}

func (f *connFlags) register(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&f.config, "config", "", "connection file (default: ./credentials.toml or ./credentials.json)")
	pf.StringVarP(&f.location, "location", "l", "", "FASTA file or MongoDB connection string")
	pf.StringVarP(&f.database, "database", "d", "", "MongoDB database name")
	pf.StringVarP(&f.username, "username", "u", "", "MongoDB username")
	pf.StringVarP(&f.password, "password", "p", "", "MongoDB password")
	pf.StringVar(&f.cache, "cache", "", "snapshot cache: none, file (default) or redis")
	pf.BoolVar(&f.noCache, "no-cache", false, "disable the snapshot cache")
}

// loadConfig resolves the connection: the --config file, else a discovered
// credentials file, else flags alone. Flags always win.
func (c *CLI) loadConfig(logger *log.Logger) (*config.Config, error) {
	cfg := &config.Config{}
	path := c.conn.config
	if path == "" && c.conn.location == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Discover(wd)
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded connection file", "path", path)
		cfg = loaded
	}

	override(&cfg.Connection.Location, c.conn.location)
	override(&cfg.Connection.Database, c.conn.database)
	override(&cfg.Connection.Username, c.conn.username)
	override(&cfg.Connection.Password, c.conn.password)
	override(&cfg.Engine.Cache, c.conn.cache)
	if c.conn.noCache {
		cfg.Engine.Cache = cache.BackendNone
	}
	if cfg.Engine.Cache == "" {
		cfg.Engine.Cache = cache.BackendFile
	}

	if cfg.Connection.Location == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"no connection: pass --location or --config, or create credentials.toml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// openStore opens the sequence store a connection points at.
func openStore(ctx context.Context, conn config.Connection) (engine.Store, error) {
	if conn.IsMongo() {
		return mongostore.Connect(ctx, mongostore.Config{
			Location: conn.Location,
			Database: conn.Database,
			Username: conn.Username,
			Password: conn.Password,
		})
	}
	return fasta.NewStore(conn.Location)
}

// connection bundles what a command needs after connecting.
type connection struct {
	cfg    *config.Config
	store  engine.Store
	engine *afg.Engine
}

// Close releases the engine, its store and its cache.
func (c *connection) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.engine.Close(ctx)
}

// connect opens the configured dataset and the reference engine over it.
func (c *CLI) connect(ctx context.Context) (*connection, error) {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig(logger)
	if err != nil {
		return nil, err
	}

	spinner := newSpinnerWithContext(ctx, "Connecting...")
	spinner.Start()
	store, err := openStore(ctx, cfg.Connection)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	snapshots, err := c.openCache(cfg.Engine)
	if err != nil {
		logger.Warn("snapshot cache disabled", "err", err)
		snapshots = cache.NewNullCache()
	}

	opts := []afg.Option{
		afg.WithLogger(logger),
		afg.WithCache(snapshots, cfg.Engine.CacheTTL.Duration),
	}
	if cfg.Engine.K > 0 {
		opts = append(opts, afg.WithInitialK(cfg.Engine.K))
	}
	eng, err := afg.New(ctx, store, opts...)
	if err != nil {
		_ = store.Close(ctx)
		_ = snapshots.Close()
		return nil, err
	}
	logger.Debug("connected", "scope", store.Scope(), "cache", cfg.Engine.Cache)
	return &connection{cfg: cfg, store: store, engine: eng}, nil
}

func (c *CLI) openCache(ec config.Engine) (cache.Cache, error) {
	opts := cache.Options{Backend: ec.Cache, RedisAddr: ec.RedisAddr}
	if ec.Cache == cache.BackendFile {
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		opts.Dir = dir
	}
	return cache.Open(opts)
}

// newRenderer builds a renderer from the [render] section, with flag
// overrides applied by the caller.
func newRenderer(rc config.Render) (*render.Renderer, error) {
	name := rc.Layout
	if name == "" {
		name = layout.NameEades
	}
	l, err := layout.ByName(name)
	if err != nil {
		return nil, err
	}
	return render.New(
		render.WithLayouter(name, l),
		render.WithSize(float64(rc.Width), float64(rc.Height)),
	), nil
}
