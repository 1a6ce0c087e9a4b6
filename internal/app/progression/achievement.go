package progression

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/codequest-game/codequest/internal/domain"
	"github.com/codequest-game/codequest/internal/infra/sqlite"
)

// recentHighlight is how long a fresh unlock stays in the
// recently-unlocked set before self-clearing.
const recentHighlight = 5 * time.Second

// AchievementEngine evaluates the fixed achievement catalog against
// progress snapshots. Unlocks are one-shot and monotonic: once a row is
// written it never re-fires even if the qualifying metric later drops.
type AchievementEngine struct {
	db    *sqlite.DB
	clock domain.Clock

	mu          sync.Mutex
	recent      []domain.AchievementDef
	recentTimer *time.Timer
}

// NewAchievementEngine creates an achievement engine over the given store.
func NewAchievementEngine(db *sqlite.DB, clock domain.Clock) *AchievementEngine {
	return &AchievementEngine{db: db, clock: clock}
}

// catalog is the full achievement list in display order. A nil
// Requirement marks a bespoke predicate dispatched by id in qualifies.
var catalog = []domain.AchievementDef{
	{
		ID: "first_steps", Name: "First Steps", Icon: "👶",
		Description: "Complete your first challenge",
		XPReward:    25, Rarity: domain.RarityCommon, Category: "progression",
		Requirement: &domain.Requirement{Metric: domain.MetricChallengesCompleted, Threshold: 1},
	},
	{
		ID: "variable_master", Name: "Variable Master", Icon: "📦",
		Description: "Create 50 variables",
		XPReward:    75, Rarity: domain.RarityUncommon, Category: "skill",
		Requirement: &domain.Requirement{Metric: domain.MetricTotalVariables, Threshold: 50},
	},
	{
		ID: "loop_master", Name: "Loop Master", Icon: "🔄",
		Description: "Write 20 loops",
		XPReward:    75, Rarity: domain.RarityUncommon, Category: "skill",
		Requirement: &domain.Requirement{Metric: domain.MetricTotalLoops, Threshold: 20},
	},
	{
		ID: "function_wizard", Name: "Function Wizard", Icon: "🧙",
		Description: "Define 15 functions",
		XPReward:    100, Rarity: domain.RarityRare, Category: "mastery",
		Requirement: &domain.Requirement{Metric: domain.MetricTotalFunctions, Threshold: 15},
	},
	{
		ID: "bug_squasher", Name: "Bug Squasher", Icon: "🐛",
		Description: "Fix 25 errors",
		XPReward:    75, Rarity: domain.RarityUncommon, Category: "resilience",
		Requirement: &domain.Requirement{Metric: domain.MetricTotalErrors, Threshold: 25},
	},
	{
		ID: "efficiency_expert", Name: "Efficiency Expert", Icon: "⚡",
		Description: "Reach a best-practices score of 90",
		XPReward:    150, Rarity: domain.RarityEpic, Category: "excellence",
		Requirement: &domain.Requirement{Metric: domain.MetricBestPractices, Threshold: 90},
	},
	{
		ID: "streak_warrior", Name: "Streak Warrior", Icon: "🔥",
		Description: "Maintain a 7-day coding streak",
		XPReward:    100, Rarity: domain.RarityRare, Category: "dedication",
		Requirement: &domain.Requirement{Metric: domain.MetricStreak, Threshold: 7},
	},
	{
		ID: "github_publisher", Name: "GitHub Publisher", Icon: "🐙",
		Description: "Save your code to GitHub",
		XPReward:    100, Rarity: domain.RarityRare, Category: "professional",
		Requirement: &domain.Requirement{Metric: domain.MetricGitHubSaves, Threshold: 1},
	},
	{
		ID: "speed_demon", Name: "Speed Demon", Icon: "🏎️",
		Description: "Write consistently fast, high-scoring code",
		XPReward:    100, Rarity: domain.RarityRare, Category: "excellence",
	},
	{
		ID: "perfectionist", Name: "Perfectionist", Icon: "💯",
		Description: "Score 100 on three submissions in a row",
		XPReward:    200, Rarity: domain.RarityEpic, Category: "excellence",
	},
}

// Catalog returns the full achievement list in display order.
func (e *AchievementEngine) Catalog() []domain.AchievementDef {
	return append([]domain.AchievementDef(nil), catalog...)
}

// Evaluate checks every locked achievement against the snapshot and
// unlocks all that qualify, in catalog order. Newly unlocked definitions
// are returned and held in the recently-unlocked set for a few seconds.
func (e *AchievementEngine) Evaluate(snap domain.Snapshot) ([]domain.AchievementDef, error) {
	unlocked, err := e.db.UnlockedSet()
	if err != nil {
		return nil, fmt.Errorf("load unlocked set: %w", err)
	}

	var fresh []domain.AchievementDef
	for _, def := range catalog {
		if unlocked[def.ID] {
			continue
		}
		if !e.qualifies(def, snap) {
			continue
		}
		inserted, err := e.db.UnlockAchievement(def.ID, e.clock.Now())
		if err != nil {
			return fresh, fmt.Errorf("unlock %s: %w", def.ID, err)
		}
		if inserted {
			fresh = append(fresh, def)
		}
	}

	if len(fresh) > 0 {
		e.markRecent(fresh)
	}
	return fresh, nil
}

func (e *AchievementEngine) qualifies(def domain.AchievementDef, snap domain.Snapshot) bool {
	if def.Requirement != nil {
		return snap.MetricValue(def.Requirement.Metric) >= def.Requirement.Threshold
	}
	switch def.ID {
	case "speed_demon":
		return speedDemonQualified(snap.Performance)
	case "perfectionist":
		return perfectionistQualified(snap.Performance)
	default:
		return false
	}
}

// speedDemonQualified: at least 5 of the last 10 sessions ran under 30s
// with a score above 80.
func speedDemonQualified(perf domain.PerformanceData) bool {
	fast := 0
	for _, s := range perf.RecentSessions(10) {
		if s.RuntimeMs < 30000 && s.Score > 80 {
			fast++
		}
	}
	return fast >= 5
}

// perfectionistQualified: a run of 3 consecutive perfect scores within
// the last 5 sessions, and at least 3 sessions recorded.
func perfectionistQualified(perf domain.PerformanceData) bool {
	recent := perf.RecentSessions(5)
	if len(recent) < 3 {
		return false
	}
	run := 0
	for _, s := range recent {
		if s.Score >= 100 {
			run++
			if run >= 3 {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// Progress reports percent-complete toward one achievement. Unlocked
// achievements always report 100; bespoke-predicate achievements report
// 0 until unlocked.
func (e *AchievementEngine) Progress(id string, snap domain.Snapshot) (domain.AchievementProgress, error) {
	def, ok := lookup(id)
	if !ok {
		return domain.AchievementProgress{}, domain.ErrUnknownAchievement
	}

	unlocked, err := e.db.IsAchievementUnlocked(id)
	if err != nil {
		return domain.AchievementProgress{}, fmt.Errorf("check unlock %s: %w", id, err)
	}

	prog := domain.AchievementProgress{Completed: unlocked}
	if def.Requirement == nil {
		prog.Required = 1
		if unlocked {
			prog.Current = 1
			prog.Percentage = 100
		}
		return prog, nil
	}

	prog.Required = def.Requirement.Threshold
	prog.Current = snap.MetricValue(def.Requirement.Metric)
	if unlocked {
		prog.Percentage = 100
	} else {
		pct := float64(prog.Current) / float64(prog.Required) * 100
		prog.Percentage = int(math.Round(math.Min(100, pct)))
	}
	return prog, nil
}

// ManualUnlock force-unlocks a catalog achievement, returning false when
// the id is unknown or the achievement is already unlocked.
func (e *AchievementEngine) ManualUnlock(id string) (bool, error) {
	def, ok := lookup(id)
	if !ok {
		return false, domain.ErrUnknownAchievement
	}
	inserted, err := e.db.UnlockAchievement(def.ID, e.clock.Now())
	if err != nil {
		return false, fmt.Errorf("unlock %s: %w", id, err)
	}
	if inserted {
		e.markRecent([]domain.AchievementDef{def})
	}
	return inserted, nil
}

// ByCategory groups all achievements by category with per-achievement
// unlock state and progress, catalog order preserved within groups.
func (e *AchievementEngine) ByCategory(snap domain.Snapshot) (map[string][]domain.AchievementView, error) {
	unlocked, err := e.db.UnlockedSet()
	if err != nil {
		return nil, fmt.Errorf("load unlocked set: %w", err)
	}

	out := map[string][]domain.AchievementView{}
	for _, def := range catalog {
		prog, err := e.Progress(def.ID, snap)
		if err != nil {
			return nil, err
		}
		out[def.Category] = append(out[def.Category], domain.AchievementView{
			AchievementDef: def,
			Unlocked:       unlocked[def.ID],
			Progress:       prog,
		})
	}
	return out, nil
}

// CompletionStats summarizes overall and per-category completion.
func (e *AchievementEngine) CompletionStats() (domain.CompletionStats, error) {
	unlocked, err := e.db.UnlockedSet()
	if err != nil {
		return domain.CompletionStats{}, fmt.Errorf("load unlocked set: %w", err)
	}

	stats := domain.CompletionStats{
		TotalAchievements: len(catalog),
		CategoryStats:     map[string]domain.CategoryStat{},
	}
	for _, def := range catalog {
		cat := stats.CategoryStats[def.Category]
		cat.Total++
		if unlocked[def.ID] {
			cat.Unlocked++
			stats.UnlockedCount++
			stats.TotalXPEarned += def.XPReward
		}
		stats.CategoryStats[def.Category] = cat
	}
	stats.RemainingCount = stats.TotalAchievements - stats.UnlockedCount
	if stats.TotalAchievements > 0 {
		pct := float64(stats.UnlockedCount) / float64(stats.TotalAchievements) * 100
		stats.CompletionPercentage = int(math.Round(pct))
	}
	for _, def := range e.RecentlyUnlocked() {
		stats.RecentAchievements = append(stats.RecentAchievements, def.ID)
	}
	return stats, nil
}

// NextAchievements lists locked achievements past the halfway mark,
// closest first.
func (e *AchievementEngine) NextAchievements(snap domain.Snapshot) ([]domain.AchievementView, error) {
	var next []domain.AchievementView
	for _, def := range catalog {
		prog, err := e.Progress(def.ID, snap)
		if err != nil {
			return nil, err
		}
		if !prog.Completed && prog.Percentage > 50 {
			next = append(next, domain.AchievementView{AchievementDef: def, Progress: prog})
		}
	}
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Progress.Percentage > next[j].Progress.Percentage
	})
	return next, nil
}

// Unlocked returns all unlocked achievements in unlock order.
func (e *AchievementEngine) Unlocked() ([]domain.UnlockedAchievement, error) {
	return e.db.ListUnlockedAchievements()
}

// UnlockedCount returns the number of unlocked achievements.
func (e *AchievementEngine) UnlockedCount() (int, error) {
	return e.db.UnlockedAchievementCount()
}

// RecentlyUnlocked returns the transient highlight set. Entries clear
// themselves after a few seconds.
func (e *AchievementEngine) RecentlyUnlocked() []domain.AchievementDef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.AchievementDef(nil), e.recent...)
}

func (e *AchievementEngine) markRecent(defs []domain.AchievementDef) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recent = append(e.recent, defs...)
	if e.recentTimer != nil {
		e.recentTimer.Stop()
	}
	e.recentTimer = time.AfterFunc(recentHighlight, func() {
		e.mu.Lock()
		e.recent = nil
		e.recentTimer = nil
		e.mu.Unlock()
	})
}

// Reset clears all unlock rows and the highlight set.
func (e *AchievementEngine) Reset() error {
	e.mu.Lock()
	if e.recentTimer != nil {
		e.recentTimer.Stop()
		e.recentTimer = nil
	}
	e.recent = nil
	e.mu.Unlock()

	if err := e.db.ResetAchievements(); err != nil {
		log.Printf("[achievements] reset: %v", err)
		return err
	}
	return nil
}

func lookup(id string) (domain.AchievementDef, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return domain.AchievementDef{}, false
}
