package registry

import (
	"strconv"

	"github.com/roguedex/gamedata/internal/game/ability"
	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/biome"
	"github.com/roguedex/gamedata/internal/game/move"
	"github.com/roguedex/gamedata/internal/game/species"
	"github.com/roguedex/gamedata/internal/game/stats"
	"github.com/roguedex/gamedata/internal/game/voucher"
	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
)

func (c *Context) requireLocked(domain Domain) error {
	if c.ready[domain] {
		return nil
	}
	return notInitialized(domain, string(domain)+" is not initialized")
}

// Species returns the species with id.
func (c *Context) Species(id species.ID) (species.Species, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainSpecies); err != nil {
		return species.Species{}, err
	}
	record, ok := c.species.Get(id)
	if !ok {
		return species.Species{}, notFound(DomainSpecies, strconv.Itoa(int(id)))
	}
	return record, nil
}

// Move returns the move with id.
func (c *Context) Move(id move.ID) (move.Move, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainMoves); err != nil {
		return move.Move{}, err
	}
	record, ok := c.moves.Get(id)
	if !ok {
		return move.Move{}, notFound(DomainMoves, strconv.Itoa(int(id)))
	}
	return record, nil
}

// Ability returns the ability with id.
func (c *Context) Ability(id ability.ID) (ability.Ability, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainAbilities); err != nil {
		return ability.Ability{}, err
	}
	record, ok := c.abilities.Get(id)
	if !ok {
		return ability.Ability{}, notFound(DomainAbilities, strconv.Itoa(int(id)))
	}
	return record, nil
}

// Biome returns the biome with id.
func (c *Context) Biome(id biome.ID) (biome.Biome, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainBiomes); err != nil {
		return biome.Biome{}, err
	}
	record, ok := c.biomes.Get(id)
	if !ok {
		return biome.Biome{}, notFound(DomainBiomes, strconv.Itoa(int(id)))
	}
	return record, nil
}

// Prevolution returns the species id evolves from. The second result is false
// for base-stage species and when prevolutions are not initialized.
func (c *Context) Prevolution(id species.ID) (species.ID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ready[DomainPrevolutions] {
		return 0, false
	}
	return c.prevolutions.Of(id)
}

// Forms returns the form keys of id in form index order.
func (c *Context) Forms(id species.ID) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainForms); err != nil {
		return nil, err
	}
	return c.forms.Of(id), nil
}

// ValidForm reports whether key names a form of id. Formless species only
// accept the empty key.
func (c *Context) ValidForm(id species.ID, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainForms); err != nil {
		return false, err
	}
	return c.forms.Valid(id, key), nil
}

// EggMoves returns the egg moves of a base-stage species.
func (c *Context) EggMoves(id species.ID) ([]move.ID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainEggMoves); err != nil {
		return nil, err
	}
	return c.eggMoves.Of(id), nil
}

// Habitats returns the sorted biomes id appears in.
func (c *Context) Habitats(id species.ID) ([]biome.ID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainBiomes); err != nil {
		return nil, err
	}
	return c.habitats.Of(id), nil
}

// StatsKeys returns the stat key registry.
func (c *Context) StatsKeys() (*stats.Registry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainStatsKeys); err != nil {
		return nil, err
	}
	return c.statsKeys, nil
}

// Achievements returns the achievement registry.
func (c *Context) Achievements() (*achievement.Registry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainAchievements); err != nil {
		return nil, err
	}
	return c.achievements, nil
}

// Vouchers returns the voucher registry.
func (c *Context) Vouchers() (*voucher.Registry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainVouchers); err != nil {
		return nil, err
	}
	return c.vouchers, nil
}

// LoggedInUser returns the resolved user.
func (c *Context) LoggedInUser() (account.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainLoggedInUser); err != nil {
		return account.User{}, err
	}
	return c.user, nil
}

// Locales returns the locale bundle.
func (c *Context) Locales() (*catalog.Bundle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.requireLocked(DomainLocales); err != nil {
		return nil, err
	}
	return c.locales, nil
}
