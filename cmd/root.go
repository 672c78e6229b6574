package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amirhf/clipfeed/services/search-go/catalog"
	"github.com/amirhf/clipfeed/services/search-go/config"
	"github.com/amirhf/clipfeed/services/search-go/history"
	"github.com/amirhf/clipfeed/services/search-go/logging"
	"github.com/amirhf/clipfeed/services/search-go/search"
	"github.com/amirhf/clipfeed/services/search-go/storage"
)

var (
	cfg       config.Config
	logger    *logrus.Logger
	ephemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "clipsearch",
	Short: "Search service for the clip feed",
	Long: `clipsearch indexes the clip feed catalog in memory and answers
search, autocomplete and trending queries, keeping a short search history.

Examples:
  clipsearch serve
  clipsearch search "cute cats" --sort views --max 10
  clipsearch suggest cat
  clipsearch history --stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
}

// Execute runs the root command with args, excluding the program name
func Execute(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep search history in memory only")
}

// app is the composition root shared by every command
type app struct {
	engine    *search.Engine
	history   *history.Store
	refresher *catalog.Refresher
	watchPath string
	close     func()
}

func newApp(ctx context.Context) (*app, error) {
	var (
		provider storage.VideoProvider
		kv       history.KVStore
		a        = &app{close: func() {}}
	)

	if cfg.DatabaseURL != "" {
		store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		provider, kv = store, store
		a.close = store.Close
	} else {
		provider = storage.NewFileVideoProvider(cfg.VideosFile)
		kv = storage.NewFileKV(cfg.HistoryFile)
		a.watchPath = cfg.VideosFile
	}
	if ephemeral {
		kv = storage.NewMemoryKV()
	}

	a.engine = search.NewEngine(nil)
	a.history = history.New(ctx, kv, history.WithLogger(logging.Component(logger, "history")))
	a.refresher = catalog.NewRefresher(provider, a.engine,
		catalog.WithLogger(logging.Component(logger, "catalog")),
	)

	// an unavailable catalog leaves the engine empty rather than failing startup
	_ = a.refresher.Refresh(ctx)
	return a, nil
}
