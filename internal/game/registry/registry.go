// Package registry owns the initialized game data of one process.
//
// A Context is built from content tables and filled by one initializer per
// domain. Initializers are idempotent, check their dependencies, and publish a
// domain only after it is fully built. After Bootstrap the context is only
// read.
package registry

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/content"
	"github.com/roguedex/gamedata/internal/game/dexindex"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
	"github.com/roguedex/gamedata/internal/game/stats"
	"github.com/roguedex/gamedata/internal/game/voucher"
	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
	"github.com/roguedex/gamedata/internal/platform/logging"
)

// Domain names one initialized registry.
type Domain string

const (
	DomainAbilities    Domain = "abilities"
	DomainMoves        Domain = "moves"
	DomainSpecies      Domain = "species"
	DomainForms        Domain = "pokemon_forms"
	DomainPrevolutions Domain = "pokemon_prevolutions"
	DomainEggMoves     Domain = "egg_moves"
	DomainBiomes       Domain = "biomes"
	DomainLocales      Domain = "locales"
	DomainStatsKeys    Domain = "stats_keys"
	DomainAchievements Domain = "achievements"
	DomainVouchers     Domain = "vouchers"
	DomainLoggedInUser Domain = "logged_in_user"
)

// ErrNotInitialized matches every error returned for a domain that is not
// ready yet.
var ErrNotInitialized = apperrors.New(apperrors.CodeNotInitialized, "registry domain is not initialized")

// ErrNotFound matches every lookup of an id that is not defined.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "registry entry not found")

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger used by Bootstrap.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		c.logger = logging.OrNop(logger)
	}
}

// WithBundle makes InitLocales use bundle instead of the embedded catalogs.
func WithBundle(bundle *catalog.Bundle) Option {
	return func(c *Context) {
		c.bundle = bundle
	}
}

// WithAccount sets the session settings read by InitLoggedInUser.
func WithAccount(cfg account.Config) Option {
	return func(c *Context) {
		c.account = cfg
	}
}

// WithTracerProvider sets the provider Bootstrap starts spans from.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Context) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

const tracerName = "github.com/roguedex/gamedata/internal/game/registry"

// Context holds every initialized registry and derived index.
type Context struct {
	mu      sync.RWMutex
	tables  content.Tables
	logger  *zap.Logger
	tracer  trace.Tracer
	bundle  *catalog.Bundle
	account account.Config
	ready   map[Domain]bool

	abilities    *ability.Table
	moves        *move.Table
	species      *species.Table
	forms        *dexindex.Forms
	prevolutions *dexindex.Prevolutions
	eggMoves     *dexindex.EggMoves
	biomes       *biome.Table
	habitats     *dexindex.Habitats
	locales      *catalog.Bundle
	statsKeys    *stats.Registry
	achievements *achievement.Registry
	vouchers     *voucher.Registry
	user         account.User
}

// New returns an empty context over tables. No domain is initialized.
func New(tables content.Tables, opts ...Option) *Context {
	c := &Context{
		tables: tables,
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
		ready:  map[Domain]bool{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Ready reports whether domain has been initialized.
func (c *Context) Ready(domain Domain) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready[domain]
}

// Count returns the number of entries of an initialized domain.
func (c *Context) Count(domain Domain) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.countLocked(domain)
}

func (c *Context) countLocked(domain Domain) int {
	if !c.ready[domain] {
		return 0
	}
	switch domain {
	case DomainAbilities:
		return c.abilities.Len()
	case DomainMoves:
		return c.moves.Len()
	case DomainSpecies:
		return c.species.Len()
	case DomainForms:
		return c.forms.Len()
	case DomainPrevolutions:
		return c.prevolutions.Len()
	case DomainEggMoves:
		return c.eggMoves.Len()
	case DomainBiomes:
		return c.biomes.Len()
	case DomainLocales:
		return c.locales.Len()
	case DomainStatsKeys:
		return c.statsKeys.Len()
	case DomainAchievements:
		return c.achievements.Len()
	case DomainVouchers:
		return c.vouchers.Len()
	case DomainLoggedInUser:
		return 1
	default:
		return 0
	}
}

// initOnce runs build under the write lock unless domain is already ready.
// build returns a publish function that is called only on success.
func (c *Context) initOnce(domain Domain, requires []Domain, build func() (func(), error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready[domain] {
		return nil
	}
	for _, dependency := range requires {
		if !c.ready[dependency] {
			return notInitialized(dependency, fmt.Sprintf("init %s: %s is not initialized", domain, dependency))
		}
	}
	publish, err := build()
	if err != nil {
		return fmt.Errorf("init %s: %w", domain, err)
	}
	publish()
	c.ready[domain] = true
	return nil
}

func notInitialized(domain Domain, message string) error {
	return apperrors.WithMetadata(apperrors.CodeNotInitialized, message, map[string]string{"domain": string(domain)})
}

func notFound(domain Domain, id string) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s %s not found", domain, id),
		map[string]string{"domain": string(domain), "id": id},
	)
}
