package progression

import (
	"fmt"
	"log"
	"math"

	"github.com/codequest-game/codequest/internal/domain"
	"github.com/codequest-game/codequest/internal/infra/sqlite"
)

// xpPerLevel sets the level curve: the XP needed to leave level N is
// N × xpPerLevel, so thresholds grow linearly.
const xpPerLevel = 150

// Controller owns the player progress and stats blocks: XP, levels,
// concept counters, and the difficulty feedback loop.
type Controller struct {
	db *sqlite.DB
}

// NewController creates a progression controller over the given store.
func NewController(db *sqlite.DB) *Controller {
	return &Controller{db: db}
}

// GainXP awards floor(base × multiplier) XP and applies level-ups,
// crossing multiple thresholds in one call when the award is large.
// XP accumulates and is never trimmed on level-up; each new threshold is
// recomputed from the new level. Negative results are clamped to zero
// gained. Returns the XP actually gained and whether at least one
// level-up happened.
func (c *Controller) GainXP(base int, multiplier float64) (int, bool, error) {
	gained := int(math.Floor(float64(base) * multiplier))
	if gained < 0 {
		gained = 0
	}

	p := c.Progress()
	p.XP += gained

	leveled := false
	for p.XP >= p.XPToNext {
		p.Level++
		p.XPToNext = p.Level * xpPerLevel
		leveled = true
	}

	if err := c.saveProgress(p); err != nil {
		return gained, leveled, fmt.Errorf("save progress: %w", err)
	}
	return gained, leveled, nil
}

// AdjustDifficulty runs the feedback loop over the success rate
// challenges/(challenges+errors). With no signal the rate defaults to
// 0.5, which holds difficulty steady.
func (c *Controller) AdjustDifficulty(errorCount int) error {
	p := c.Progress()

	rate := 0.5
	if total := p.ChallengesCompleted + errorCount; total > 0 {
		rate = float64(p.ChallengesCompleted) / float64(total)
	}

	switch {
	case rate >= 0.9 && p.Level > 6:
		p.SkillLevel = domain.SkillAdvanced
		p.Difficulty = min(domain.MaxDifficulty, p.Difficulty+1)
	case rate >= 0.8 && p.Level > 3:
		p.SkillLevel = domain.SkillIntermediate
		p.Difficulty = min(3, p.Difficulty+1)
	case rate < 0.3:
		p.Difficulty = max(domain.MinDifficulty, p.Difficulty-1)
	}

	return c.saveProgress(p)
}

// RecordChallengeCompleted bumps the completed-challenge counter.
func (c *Controller) RecordChallengeCompleted() error {
	p := c.Progress()
	p.ChallengesCompleted++
	return c.saveProgress(p)
}

// AddLines adds to the lifetime lines-written counter.
func (c *Controller) AddLines(n int) error {
	if n <= 0 {
		return nil
	}
	p := c.Progress()
	p.TotalLinesWritten += n
	return c.saveProgress(p)
}

// RecordConceptUse bumps the concept counter named by tag. Unknown tags
// are ignored.
func (c *Controller) RecordConceptUse(tag string) error {
	s := c.Stats()
	switch tag {
	case "variables":
		s.Variables++
	case "conditionals":
		s.Conditionals++
	case "loops":
		s.Loops++
	case "functions":
		s.Functions++
	default:
		return nil
	}
	return c.db.SaveDoc(sqlite.DocStats, s)
}

// RecordGitHubSave bumps the GitHub save counter.
func (c *Controller) RecordGitHubSave() error {
	p := c.Progress()
	p.GitHubSaveCount++
	return c.saveProgress(p)
}

// SetStreakMirror refreshes the read-only streak mirror on the progress
// block. The streak tracker is the source of truth.
func (c *Controller) SetStreakMirror(streak int, lastPlay string) error {
	p := c.Progress()
	p.Streak = streak
	p.LastPlayDate = lastPlay
	return c.saveProgress(p)
}

// AppendAchievements records unlocked achievement ids on the progress
// block, skipping duplicates.
func (c *Controller) AppendAchievements(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	p := c.Progress()
	have := make(map[string]bool, len(p.Achievements))
	for _, id := range p.Achievements {
		have[id] = true
	}
	for _, id := range ids {
		if !have[id] {
			p.Achievements = append(p.Achievements, id)
			have[id] = true
		}
	}
	return c.saveProgress(p)
}

// Progress returns the current progress block, defaulting when the
// stored document is absent or corrupt.
func (c *Controller) Progress() domain.PlayerProgress {
	p := domain.DefaultPlayerProgress()
	found, err := c.db.LoadDoc(sqlite.DocProgress, &p)
	if err != nil {
		log.Printf("[progression] corrupt progress doc, using defaults: %v", err)
		return domain.DefaultPlayerProgress()
	}
	if !found {
		return domain.DefaultPlayerProgress()
	}
	return p
}

// Stats returns the concept counters.
func (c *Controller) Stats() domain.PlayerStats {
	var s domain.PlayerStats
	found, err := c.db.LoadDoc(sqlite.DocStats, &s)
	if err != nil {
		log.Printf("[progression] corrupt stats doc, using defaults: %v", err)
		return domain.PlayerStats{}
	}
	if !found {
		return domain.PlayerStats{}
	}
	return s
}

// Reset clears both owned blocks back to first-run state.
func (c *Controller) Reset() error {
	if err := c.db.DeleteDoc(sqlite.DocProgress); err != nil {
		return err
	}
	return c.db.DeleteDoc(sqlite.DocStats)
}

func (c *Controller) saveProgress(p domain.PlayerProgress) error {
	return c.db.SaveDoc(sqlite.DocProgress, p)
}
