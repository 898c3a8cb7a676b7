package registry

import (
	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/dexindex"
	"github.com/roguedex/gamedata/internal/game/evolution"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
	"github.com/roguedex/gamedata/internal/game/stats"
	"github.com/roguedex/gamedata/internal/game/unlock"
	"github.com/roguedex/gamedata/internal/game/voucher"
	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
)

// InitAbilities builds the ability table.
func (c *Context) InitAbilities() error {
	return c.initOnce(DomainAbilities, nil, func() (func(), error) {
		table, err := ability.NewTable(c.tables.Abilities)
		if err != nil {
			return nil, err
		}
		return func() { c.abilities = table }, nil
	})
}

// InitMoves builds the move table.
func (c *Context) InitMoves() error {
	return c.initOnce(DomainMoves, nil, func() (func(), error) {
		table, err := move.NewTable(c.tables.Moves)
		if err != nil {
			return nil, err
		}
		return func() { c.moves = table }, nil
	})
}

// InitSpecies builds the species table and checks its ability references.
func (c *Context) InitSpecies() error {
	return c.initOnce(DomainSpecies, []Domain{DomainAbilities}, func() (func(), error) {
		table, err := species.NewTable(c.tables.Species)
		if err != nil {
			return nil, err
		}
		if err := table.CheckAbilities(c.abilities); err != nil {
			return nil, err
		}
		return func() { c.species = table }, nil
	})
}

// InitPokemonForms builds the form index.
func (c *Context) InitPokemonForms() error {
	return c.initOnce(DomainForms, []Domain{DomainSpecies}, func() (func(), error) {
		forms, err := dexindex.BuildForms(c.species)
		if err != nil {
			return nil, err
		}
		return func() { c.forms = forms }, nil
	})
}

// InitPokemonPrevolutions builds the prevolution index from the evolutions.
func (c *Context) InitPokemonPrevolutions() error {
	return c.initOnce(DomainPrevolutions, []Domain{DomainSpecies}, func() (func(), error) {
		if err := evolution.Validate(c.tables.Evolutions); err != nil {
			return nil, err
		}
		prevolutions, err := dexindex.BuildPrevolutions(c.species, c.tables.Evolutions)
		if err != nil {
			return nil, err
		}
		return func() { c.prevolutions = prevolutions }, nil
	})
}

// InitEggMoves builds the egg move index.
func (c *Context) InitEggMoves() error {
	requires := []Domain{DomainSpecies, DomainMoves, DomainPrevolutions}
	return c.initOnce(DomainEggMoves, requires, func() (func(), error) {
		eggMoves, err := dexindex.BuildEggMoves(c.species, c.moves, c.prevolutions, c.tables.EggMoves)
		if err != nil {
			return nil, err
		}
		return func() { c.eggMoves = eggMoves }, nil
	})
}

// InitBiomes builds the biome table and the habitat index.
func (c *Context) InitBiomes() error {
	return c.initOnce(DomainBiomes, []Domain{DomainSpecies}, func() (func(), error) {
		table, err := biome.NewTable(c.tables.Biomes)
		if err != nil {
			return nil, err
		}
		habitats, err := dexindex.BuildHabitats(c.species, table)
		if err != nil {
			return nil, err
		}
		return func() {
			c.biomes = table
			c.habitats = habitats
		}, nil
	})
}

// InitLocales loads the locale bundle and requires every locale to be
// complete.
func (c *Context) InitLocales() error {
	return c.initOnce(DomainLocales, nil, func() (func(), error) {
		bundle := c.bundle
		if bundle == nil {
			loaded, err := catalog.LoadEmbedded()
			if err != nil {
				return nil, err
			}
			bundle = loaded
		}
		if err := bundle.CheckComplete(); err != nil {
			return nil, err
		}
		return func() { c.locales = bundle }, nil
	})
}

// InitStatsKeys builds the stat key registry and checks its labels.
func (c *Context) InitStatsKeys() error {
	return c.initOnce(DomainStatsKeys, []Domain{DomainLocales}, func() (func(), error) {
		registry, err := stats.NewRegistry(c.tables.StatsKeys)
		if err != nil {
			return nil, err
		}
		if err := registry.CheckLabels(c.locales.HasKey); err != nil {
			return nil, err
		}
		return func() { c.statsKeys = registry }, nil
	})
}

// InitAchievements compiles the achievement conditions.
func (c *Context) InitAchievements() error {
	requires := []Domain{DomainStatsKeys, DomainSpecies, DomainLocales}
	return c.initOnce(DomainAchievements, requires, func() (func(), error) {
		registry, err := achievement.NewRegistry(c.tables.Achievements, c.unlockRefs())
		if err != nil {
			return nil, err
		}
		if err := registry.CheckLocale(c.locales.HasKey); err != nil {
			return nil, err
		}
		return func() { c.achievements = registry }, nil
	})
}

// InitVouchers compiles the voucher conditions.
func (c *Context) InitVouchers() error {
	requires := []Domain{DomainAchievements, DomainLocales}
	return c.initOnce(DomainVouchers, requires, func() (func(), error) {
		refs := c.unlockRefs()
		refs.Achievement = c.achievements.Has
		registry, err := voucher.NewRegistry(c.tables.Vouchers, refs)
		if err != nil {
			return nil, err
		}
		if err := registry.CheckLocale(c.locales.HasKey); err != nil {
			return nil, err
		}
		return func() { c.vouchers = registry }, nil
	})
}

// InitLoggedInUser resolves the user from the session settings.
func (c *Context) InitLoggedInUser() error {
	return c.initOnce(DomainLoggedInUser, nil, func() (func(), error) {
		user, err := account.Init(c.account)
		if err != nil {
			return nil, err
		}
		return func() { c.user = user }, nil
	})
}

func (c *Context) unlockRefs() unlock.Refs {
	return unlock.Refs{
		Stat:    c.statsKeys.Has,
		Species: c.species.Has,
	}
}
