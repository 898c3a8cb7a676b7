// Package contentimporter validates a content directory and imports it into
// the SQLite content store.
package contentimporter

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/roguedex/gamedata/internal/game/content"
	"github.com/roguedex/gamedata/internal/game/registry"
	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
	"github.com/roguedex/gamedata/internal/platform/logging"
	storagesqlite "github.com/roguedex/gamedata/internal/storage/sqlite"
)

const defaultSource = "roguedex"

// Config holds configuration for the content importer.
type Config struct {
	Dir        string
	LocalesDir string
	DBPath     string
	Source     string
	DryRun     bool
	Logger     *zap.Logger
}

// ParseConfig parses CLI flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "content.db"),
		Source: defaultSource,
	}

	fs.StringVar(&cfg.Dir, "dir", "", "directory containing the content JSON files")
	fs.StringVar(&cfg.LocalesDir, "locales-dir", "", "directory containing locales/<code>/<namespace>.yaml (default: embedded bundle)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "content database path")
	fs.StringVar(&cfg.Source, "source", cfg.Source, "source label recorded with the import")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate without writing to the database")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		return Config{}, errors.New("dir is required")
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db-path is required")
	}
	return cfg, nil
}

// Run validates the content directory by bootstrapping a registry from it and,
// unless DryRun is set, replaces the stored content tables.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	logger := logging.OrNop(cfg.Logger)

	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return errors.New("dir is required")
	}
	tables, err := content.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	opts := []registry.Option{registry.WithLogger(logger)}
	if localesDir := strings.TrimSpace(cfg.LocalesDir); localesDir != "" {
		bundle, err := catalog.LoadFromFS(os.DirFS(localesDir))
		if err != nil {
			return fmt.Errorf("read locales %s: %w", localesDir, err)
		}
		opts = append(opts, registry.WithBundle(bundle))
	}
	if err := registry.New(tables, opts...).Bootstrap(ctx); err != nil {
		return fmt.Errorf("validate %s: %w", dir, err)
	}

	if err := writeCounts(out, tables.Counts()); err != nil {
		return err
	}
	if cfg.DryRun {
		_, err = fmt.Fprintf(out, "validated %d table(s)\n", len(content.Kinds))
		return err
	}

	store, err := storagesqlite.OpenContent(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	source := strings.TrimSpace(cfg.Source)
	if source == "" {
		source = defaultSource
	}
	if err := store.ReplaceTables(ctx, tables, source); err != nil {
		return fmt.Errorf("import %s: %w", dir, err)
	}
	logger.Info("content imported", zap.String("dir", dir), zap.String("db_path", cfg.DBPath))
	_, err = fmt.Fprintf(out, "imported %d table(s) into %s\n", len(content.Kinds), cfg.DBPath)
	return err
}

func writeCounts(out io.Writer, counts map[content.Kind]int) error {
	for _, kind := range content.Kinds {
		if _, err := fmt.Fprintf(out, "%-14s %d\n", kind, counts[kind]); err != nil {
			return err
		}
	}
	return nil
}
