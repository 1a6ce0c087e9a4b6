package progression

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/codequest-game/codequest/internal/domain"
	"github.com/codequest-game/codequest/internal/infra/metrics"
	"github.com/codequest-game/codequest/internal/infra/sqlite"
)

// Engine orchestrates one submission through the full pipeline:
// score → concept/challenge counters → XP → streak → achievements →
// difficulty. A single mutex serializes mutations so every achievement
// evaluation sees a consistent snapshot.
type Engine struct {
	mu sync.Mutex

	db           *sqlite.DB
	clock        domain.Clock
	scorer       *Scorer
	streak       *StreakTracker
	achievements *AchievementEngine
	controller   *Controller
	mentor       *MentorFeed
}

// NewEngine wires the progression services over one store.
func NewEngine(db *sqlite.DB, clock domain.Clock) *Engine {
	return &Engine{
		db:           db,
		clock:        clock,
		scorer:       NewScorer(db, clock),
		streak:       NewStreakTracker(db, clock),
		achievements: NewAchievementEngine(db, clock),
		controller:   NewController(db),
		mentor:       NewMentorFeed(clock),
	}
}

// Submit runs one code submission through the pipeline and returns the
// combined outcome. Empty code is rejected before any state changes.
func (e *Engine) Submit(sub domain.Submission) (domain.SubmissionOutcome, error) {
	if strings.TrimSpace(sub.Code) == "" {
		return domain.SubmissionOutcome{}, domain.ErrEmptySubmission
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.scorer.Score(sub.Code, sub.RuntimeMs)
	if err != nil {
		return domain.SubmissionOutcome{}, fmt.Errorf("score submission: %w", err)
	}
	metrics.SubmissionsScored.Inc()

	today := e.clock.DayKey(e.clock.Now())

	if sub.Validated {
		if err := e.controller.RecordChallengeCompleted(); err != nil {
			return domain.SubmissionOutcome{}, err
		}
		if err := e.controller.AddLines(strings.Count(sub.Code, "\n") + 1); err != nil {
			return domain.SubmissionOutcome{}, err
		}
		if sub.ConceptTag != "" {
			if err := e.controller.RecordConceptUse(sub.ConceptTag); err != nil {
				return domain.SubmissionOutcome{}, err
			}
		}
		if err := e.streak.RecordChallengeDone(today); err != nil {
			return domain.SubmissionOutcome{}, err
		}
	}

	base := result.Score
	if base < 0 {
		base = 0
	}
	gained, leveled, err := e.controller.GainXP(base, 1.0)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	metrics.XPAwarded.Add(float64(gained))
	if leveled {
		metrics.LevelUps.Inc()
	}

	prevStreak := e.streak.Data().CurrentStreak
	streakData, err := e.streak.RecordActivity(today)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	metrics.StreakDays.Set(float64(streakData.CurrentStreak))
	if streakData.CurrentStreak != prevStreak {
		for _, m := range streakData.StreakMilestones {
			if m.Date == today {
				e.mentor.Push(m.Message, domain.MentorInfo)
			}
		}
	}
	if err := e.controller.SetStreakMirror(streakData.CurrentStreak, streakData.LastPlayDate); err != nil {
		return domain.SubmissionOutcome{}, err
	}

	fresh, err := e.achievements.Evaluate(e.snapshotLocked())
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	var freshIDs []string
	for _, def := range fresh {
		metrics.AchievementsUnlocked.Inc()
		if _, bonusLeveled, err := e.controller.GainXP(def.XPReward, 1.0); err != nil {
			return domain.SubmissionOutcome{}, err
		} else if bonusLeveled {
			leveled = true
			metrics.LevelUps.Inc()
		}
		freshIDs = append(freshIDs, def.ID)
		e.mentor.Push(fmt.Sprintf("%s Achievement unlocked: %s!", def.Icon, def.Name), domain.MentorSuccess)
	}
	if err := e.controller.AppendAchievements(freshIDs); err != nil {
		return domain.SubmissionOutcome{}, err
	}

	perf := e.scorer.Data()
	if err := e.controller.AdjustDifficulty(perf.ErrorCount); err != nil {
		return domain.SubmissionOutcome{}, err
	}

	progress := e.controller.Progress()
	metrics.DifficultyLevel.Set(float64(progress.Difficulty))

	if leveled {
		e.mentor.Push(fmt.Sprintf("🎉 Level up! You're now level %d!", progress.Level), domain.MentorSuccess)
	}
	if len(result.Issues) > 0 {
		e.mentor.Push(result.Issues[0], domain.MentorHint)
	}
	if result.Score < 60 {
		e.mentor.Push(fmt.Sprintf("Score %d - slow down and clean up before the next run", result.Score), domain.MentorWarning)
	}

	return domain.SubmissionOutcome{
		Result:          result,
		XPGained:        gained,
		Level:           progress.Level,
		LeveledUp:       leveled,
		NewAchievements: freshIDs,
		Difficulty:      progress.Difficulty,
		Streak:          streakData.CurrentStreak,
	}, nil
}

// RecordError counts a runtime/compile error and re-evaluates
// achievements (bug_squasher gates on the error count).
func (e *Engine) RecordError() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.scorer.RecordError(); err != nil {
		return err
	}
	metrics.SubmissionErrors.Inc()
	e.mentor.Push("Error recorded - every bug you squash counts", domain.MentorError)
	fresh, err := e.achievements.Evaluate(e.snapshotLocked())
	if err != nil {
		return err
	}
	return e.rewardUnlocksLocked(fresh)
}

// RecordGitHubSave counts a push to GitHub and re-evaluates achievements.
func (e *Engine) RecordGitHubSave() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.controller.RecordGitHubSave(); err != nil {
		return err
	}
	fresh, err := e.achievements.Evaluate(e.snapshotLocked())
	if err != nil {
		return err
	}
	return e.rewardUnlocksLocked(fresh)
}

func (e *Engine) rewardUnlocksLocked(fresh []domain.AchievementDef) error {
	var ids []string
	for _, def := range fresh {
		metrics.AchievementsUnlocked.Inc()
		if _, _, err := e.controller.GainXP(def.XPReward, 1.0); err != nil {
			return err
		}
		ids = append(ids, def.ID)
		e.mentor.Push(fmt.Sprintf("%s Achievement unlocked: %s!", def.Icon, def.Name), domain.MentorSuccess)
	}
	return e.controller.AppendAchievements(ids)
}

// Snapshot builds the read-only view achievement evaluation and the API
// layer consume.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Progress:    e.controller.Progress(),
		Stats:       e.controller.Stats(),
		Performance: e.scorer.Data(),
	}
}

// Tick advances display-only clocks. Driven by the daemon's one-minute
// ticker.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.streak.Tick(now)
}

// ResetAll restores every state block to first-run defaults.
func (e *Engine) ResetAll() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.controller.Reset(); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	if err := e.scorer.Reset(); err != nil {
		return fmt.Errorf("reset performance: %w", err)
	}
	if err := e.streak.Reset(); err != nil {
		return fmt.Errorf("reset streak: %w", err)
	}
	if err := e.achievements.Reset(); err != nil {
		return fmt.Errorf("reset achievements: %w", err)
	}
	e.mentor.Reset()
	return nil
}

// ─── Component Access ───────────────────────────────────────────────────────

func (e *Engine) Scorer() *Scorer                  { return e.scorer }
func (e *Engine) Streak() *StreakTracker           { return e.streak }
func (e *Engine) Achievements() *AchievementEngine { return e.achievements }
func (e *Engine) Controller() *Controller          { return e.controller }
func (e *Engine) Mentor() *MentorFeed              { return e.mentor }
