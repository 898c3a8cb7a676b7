package progressreport

import (
	"fmt"
	"io"

	"github.com/roguedex/gamedata/internal/game/account"
	"github.com/roguedex/gamedata/internal/game/achievement"
	"github.com/roguedex/gamedata/internal/game/rewards"
	"github.com/roguedex/gamedata/internal/game/stats"
	"github.com/roguedex/gamedata/internal/game/voucher"
	"github.com/roguedex/gamedata/internal/platform/i18n/catalog"
)

const newMarker = " (new)"

type reporter struct {
	out          io.Writer
	bundle       *catalog.Bundle
	locale       string
	achievements *achievement.Registry
	vouchers     *voucher.Registry
}

func (r reporter) write(user account.User, result rewards.Result) error {
	if _, err := fmt.Fprintf(r.out, "user: %s\nlocale: %s\n\n", user.Username, r.locale); err != nil {
		return err
	}

	title, err := r.bundle.Translate(r.locale, "achv:achievements", nil)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.out, "%s (%d)\n", title, result.Score); err != nil {
		return err
	}
	fresh := make(map[achievement.ID]bool, len(result.NewAchievements))
	for _, id := range result.NewAchievements {
		fresh[id] = true
	}
	for _, id := range result.Achievements {
		def, ok := r.achievements.Get(id)
		if !ok {
			return fmt.Errorf("achievement %s is not defined", id)
		}
		params := achievementParams(def)
		name, err := r.bundle.Translate(r.locale, def.NameKey, params)
		if err != nil {
			return err
		}
		description, err := r.bundle.Translate(r.locale, def.DescriptionKey, params)
		if err != nil {
			return err
		}
		if err := r.line(name, description, fresh[id]); err != nil {
			return err
		}
	}

	title, err = r.bundle.Translate(r.locale, "voucher:vouchers", nil)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.out, "\n%s\n", title); err != nil {
		return err
	}
	freshVouchers := make(map[voucher.ID]bool, len(result.NewVouchers))
	for _, id := range result.NewVouchers {
		freshVouchers[id] = true
	}
	for _, id := range result.Vouchers {
		def, ok := r.vouchers.Get(id)
		if !ok {
			return fmt.Errorf("voucher %s is not defined", id)
		}
		name, err := r.bundle.Translate(r.locale, def.Tier.NameKey(), nil)
		if err != nil {
			return err
		}
		description, err := r.bundle.Translate(r.locale, def.DescriptionKey, nil)
		if err != nil {
			return err
		}
		if err := r.line(name, description, freshVouchers[id]); err != nil {
			return err
		}
	}
	return nil
}

func (r reporter) line(name, description string, fresh bool) error {
	marker := ""
	if fresh {
		marker = newMarker
	}
	_, err := fmt.Fprintf(r.out, "  %s: %s%s\n", name, description, marker)
	return err
}

func (r reporter) writeStats(lines []stats.Line) error {
	title, err := r.bundle.Translate(r.locale, "gameStats:stats", nil)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(r.out, "\n%s\n", title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(r.out, "  %s: %s\n", line.Label, line.Value); err != nil {
			return err
		}
	}
	return nil
}

func achievementParams(def achievement.Definition) map[string]any {
	if len(def.Params) == 0 {
		return nil
	}
	params := make(map[string]any, len(def.Params))
	for key, value := range def.Params {
		params[key] = value
	}
	return params
}
