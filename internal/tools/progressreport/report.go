// Package progressreport evaluates a progress snapshot against the game
// registries and prints the localized unlocks.
package progressreport

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/content"
	"github.com/roguedex/gamedata/internal/game/progress"
	"github.com/roguedex/gamedata/internal/game/registry"
	"github.com/roguedex/gamedata/internal/game/rewards"
	platformcmd "github.com/roguedex/gamedata/internal/platform/cmd"
	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
	"github.com/roguedex/gamedata/internal/platform/logging"
	storagesqlite "github.com/roguedex/gamedata/internal/storage/sqlite"
)

// EnvConfig holds the settings read from the environment.
type EnvConfig struct {
	Account account.Config
	Locale  string `env:"ROGUEDEX_LOCALE" envDefault:"en"`
}

// Config holds configuration for the progress report.
type Config struct {
	Env          EnvConfig
	SnapshotPath string
	DBPath       string
	User         string
	Locale       string
	ShowStats    bool
	Logger       *zap.Logger
}

// ParseConfig reads environment defaults and then CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.SnapshotPath, "snapshot", "", "progress snapshot JSON file")
	fs.StringVar(&cfg.DBPath, "db-path", "", "content database path (default: embedded content, no grants recorded)")
	fs.StringVar(&cfg.User, "user", "", "username to evaluate (default: session user)")
	fs.StringVar(&cfg.Locale, "locale", "", "locale code or Accept-Language value (default: ROGUEDEX_LOCALE)")
	fs.BoolVar(&cfg.ShowStats, "stats", false, "also print the stats page")
	if err := platformcmd.ParseConfigFromArgs(&cfg.Env, fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.SnapshotPath) == "" {
		return Config{}, errors.New("snapshot is required")
	}
	return cfg, nil
}

// Run loads content, grants the unlocks met by the snapshot and writes the
// report to out. With DBPath set, content is read from and grants are written
// to the SQLite store.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	logger := logging.OrNop(cfg.Logger)

	snapshot, err := progress.Load(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	var (
		tables content.Tables
		store  *storagesqlite.Store
	)
	if dbPath := strings.TrimSpace(cfg.DBPath); dbPath != "" {
		store, err = storagesqlite.OpenContent(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("open content store: %w", err)
		}
		defer store.Close()
		tables, err = store.LoadTables(ctx)
		if err != nil {
			return fmt.Errorf("load content from %s: %w", dbPath, err)
		}
	} else {
		tables, err = content.LoadEmbedded()
		if err != nil {
			return err
		}
	}

	reg := registry.New(tables, registry.WithLogger(logger), registry.WithAccount(cfg.Env.Account))
	if err := reg.Bootstrap(ctx); err != nil {
		return err
	}

	user, err := reg.LoggedInUser()
	if err != nil {
		return err
	}
	if name := strings.TrimSpace(cfg.User); name != "" {
		user = account.User{Username: name, LastSessionSlot: account.NoSessionSlot}
	}

	achievements, err := reg.Achievements()
	if err != nil {
		return err
	}
	vouchers, err := reg.Vouchers()
	if err != nil {
		return err
	}
	opts := []rewards.Option{rewards.WithLogger(logger)}
	if store != nil {
		opts = append(opts, rewards.WithStore(store))
	}
	service, err := rewards.NewService(achievements, vouchers, opts...)
	if err != nil {
		return err
	}
	result, err := service.Grant(ctx, user, snapshot)
	if err != nil {
		return err
	}

	bundle, err := reg.Locales()
	if err != nil {
		return err
	}
	preference := cfg.Locale
	if strings.TrimSpace(preference) == "" {
		preference = cfg.Env.Locale
	}
	r := reporter{
		out:          out,
		bundle:       bundle,
		locale:       catalog.Match(preference),
		achievements: achievements,
		vouchers:     vouchers,
	}
	if err := r.write(user, result); err != nil {
		return err
	}
	if cfg.ShowStats {
		keys, err := reg.StatsKeys()
		if err != nil {
			return err
		}
		lines, err := keys.Lines(snapshot, bundle, r.locale)
		if err != nil {
			return err
		}
		if err := r.writeStats(lines); err != nil {
			return err
		}
	}
	return nil
}
