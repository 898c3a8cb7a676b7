package registry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type step struct {
	domain Domain
	run    func() error
}

func (c *Context) steps() []step {
	return []step{
		{domain: DomainAbilities, run: c.InitAbilities},
		{domain: DomainMoves, run: c.InitMoves},
		{domain: DomainSpecies, run: c.InitSpecies},
		{domain: DomainForms, run: c.InitPokemonForms},
		{domain: DomainPrevolutions, run: c.InitPokemonPrevolutions},
		{domain: DomainEggMoves, run: c.InitEggMoves},
		{domain: DomainBiomes, run: c.InitBiomes},
		{domain: DomainLocales, run: c.InitLocales},
		{domain: DomainStatsKeys, run: c.InitStatsKeys},
		{domain: DomainAchievements, run: c.InitAchievements},
		{domain: DomainVouchers, run: c.InitVouchers},
		{domain: DomainLoggedInUser, run: c.InitLoggedInUser},
	}
}

// Domains returns every domain in initialization order.
func Domains() []Domain {
	steps := (&Context{}).steps()
	out := make([]Domain, len(steps))
	for i, s := range steps {
		out[i] = s.domain
	}
	return out
}

// Bootstrap runs every initializer in dependency order and stops at the
// first failure.
func (c *Context) Bootstrap(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "registry.Bootstrap")
	defer span.End()

	for _, s := range c.steps() {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		if err := c.runStep(ctx, s); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}
	return nil
}

func (c *Context) runStep(ctx context.Context, s step) error {
	_, span := c.tracer.Start(ctx, "registry.init."+string(s.domain))
	defer span.End()

	if err := s.run(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("registry init failed", zap.String("domain", string(s.domain)), zap.Error(err))
		return err
	}
	count := c.Count(s.domain)
	span.SetAttributes(
		attribute.String("registry.domain", string(s.domain)),
		attribute.Int("registry.entries", count),
	)
	c.logger.Info("registry initialized", zap.String("domain", string(s.domain)), zap.Int("entries", count))
	return nil
}

// MustBootstrap is Bootstrap for tests and entry points. It panics on error.
func (c *Context) MustBootstrap(ctx context.Context) *Context {
	if err := c.Bootstrap(ctx); err != nil {
		panic(fmt.Sprintf("bootstrap registry: %v", err))
	}
	return c
}
