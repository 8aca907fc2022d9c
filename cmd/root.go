package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/nerdwave-nick/pokeview/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type RootOptions struct {
	ConfigPath  string
	BaseURL     string
	MaxID       int
	Timeout     time.Duration
	LogLevel    string
	Parallelism int
	DBPath      string
	NoPersist   bool
	GCInterval  int
	L2CacheTTL  int
	L1CacheTTL  int
	L1CacheSize int
}

// apply copies the flags the user actually set over cfg, so a config file
// value is only overridden on purpose.
func (o *RootOptions) apply(flags *pflag.FlagSet, cfg *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "base-url":
			cfg.BaseURL = o.BaseURL
		case "max-id":
			cfg.MaxID = o.MaxID
		case "timeout":
			cfg.Timeout.Duration = o.Timeout
		case "level":
			cfg.LogLevel = o.LogLevel
		case "parallelism":
			cfg.Parallelism = o.Parallelism
		case "db-path":
			cfg.Cache.DBPath = o.DBPath
		case "no-persist":
			cfg.Cache.NoPersist = o.NoPersist
		case "gc-interval":
			cfg.Cache.GCInterval.Duration = time.Duration(o.GCInterval) * time.Second
		case "l2-ttl":
			cfg.Cache.L2TTL.Duration = time.Duration(o.L2CacheTTL) * time.Second
		case "l1-ttl":
			cfg.Cache.L1TTL.Duration = time.Duration(o.L1CacheTTL) * time.Second
		case "l1-size":
			cfg.Cache.L1Size = o.L1CacheSize
		}
	})
}

// load reads the config file when one was given and layers the flags on top.
func (o *RootOptions) load(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		cfg, err = config.Read(o.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	o.apply(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("incorrect command usage:\n%w", err)
	}
	return cfg, nil
}

var (
	rootOpts = &RootOptions{}
	// cfg is resolved in PersistentPreRunE before any subcommand runs.
	cfg *config.Config
)

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&rootOpts.ConfigPath, "config", "c", "", "Path of a TOML config file. Flags override its values.")
	flags.StringVar(&rootOpts.BaseURL, "base-url", defaults.BaseURL, "The pokemon endpoint of the catalog.")
	flags.IntVar(&rootOpts.MaxID, "max-id", defaults.MaxID, "The highest record id that may be requested.")
	flags.DurationVar(&rootOpts.Timeout, "timeout", defaults.Timeout.Duration, "The timeout of a single catalog request.")
	flags.StringVarP(&rootOpts.LogLevel, "level", "l", defaults.LogLevel, "The log level. Valid levels are debug, info, warn, and error.")
	flags.IntVar(&rootOpts.Parallelism, "parallelism", defaults.Parallelism, "How many moves of a batch are resolved at once.")
	flags.StringVar(&rootOpts.DBPath, "db-path", defaults.Cache.DBPath, "The path of the badger db folder. Will be created when it doesn't exist.")
	flags.BoolVar(&rootOpts.NoPersist, "no-persist", defaults.Cache.NoPersist, "Keep the cache in memory only and skip the badger db.")
	flags.IntVar(&rootOpts.GCInterval, "gc-interval", int(defaults.Cache.GCInterval.Seconds()), "The garbage collection interval of the badger db in seconds. Needs to be greater than 0.")
	flags.IntVar(&rootOpts.L2CacheTTL, "l2-ttl", int(defaults.Cache.L2TTL.Seconds()), "The ttl of the larger l2 cache in seconds. Needs to be greater than 0.")
	flags.IntVar(&rootOpts.L1CacheTTL, "l1-ttl", int(defaults.Cache.L1TTL.Seconds()), "The ttl of the smaller l1 cache in seconds. Needs to be greater than 0.")
	flags.IntVar(&rootOpts.L1CacheSize, "l1-size", defaults.Cache.L1Size, "The size of the smaller l1 cache in number of items. Needs to be greater than 0.")

	rootCmd.AddCommand(showCmd, movesCmd, browseCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:          "pokeview",
	Short:        "pokeview - browse creature records of the PokeAPI catalog",
	Long:         "pokeview - browse creature records of the PokeAPI catalog\n\nShows attributes, sprites, cries and size comparisons of a record and pages through its moves, in the terminal or over a JSON api. Catalog responses are cached in memory and in a persistent K/V database.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = rootOpts.load(cmd.Flags())
		if err != nil {
			return err
		}
		setupLogger(os.Stderr, cfg.LogLevel)
		return nil
	},
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(w io.Writer, level string) {
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: "15:04:05",
	})))
}
