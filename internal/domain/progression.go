// Package domain holds the progression engine's typed state blocks.
// Four blocks — player progress, performance, streak, unlocked achievements —
// are owned by exactly one service each and exposed to the presentation
// layer as read-only snapshots.
package domain

import "time"

// ─── Player Progress ────────────────────────────────────────────────────────

// SkillLevel is the coarse skill tier used by the difficulty loop.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// Difficulty bounds for the feedback-controlled adjuster.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// PlayerProgress is the level/XP state block. Owned by the progression
// controller; Streak is a read mirror of StreakData.CurrentStreak and is
// refreshed by the engine, never written independently.
type PlayerProgress struct {
	Level               int        `json:"level"`
	XP                  int        `json:"xp"`
	XPToNext            int        `json:"xp_to_next"`
	TotalLinesWritten   int        `json:"total_lines_written"`
	ChallengesCompleted int        `json:"challenges_completed"`
	Streak              int        `json:"streak"`
	LastPlayDate        string     `json:"last_play_date"` // day-key, "" when never played
	Achievements        []string   `json:"achievements"`   // append-only, no duplicates
	SkillLevel          SkillLevel `json:"skill_level"`
	GitHubSaveCount     int        `json:"github_save_count"`
	Difficulty          int        `json:"difficulty"` // clamped to [1,5]
}

// DefaultPlayerProgress returns the first-run progress block.
func DefaultPlayerProgress() PlayerProgress {
	return PlayerProgress{
		Level:      1,
		XPToNext:   150,
		SkillLevel: SkillBeginner,
		Difficulty: MinDifficulty,
	}
}

// PlayerStats counts concept usage across all completed challenges.
type PlayerStats struct {
	Variables    int `json:"variables"`
	Conditionals int `json:"conditionals"`
	Loops        int `json:"loops"`
	Functions    int `json:"functions"`
}

// ─── Performance ────────────────────────────────────────────────────────────

// EfficiencyRating is the letter grade for a quality score.
type EfficiencyRating string

const (
	RatingA EfficiencyRating = "A"
	RatingB EfficiencyRating = "B"
	RatingC EfficiencyRating = "C"
	RatingD EfficiencyRating = "D"
	RatingF EfficiencyRating = "F"
)

// RatingForScore maps a quality score to its letter grade.
func RatingForScore(score int) EfficiencyRating {
	switch {
	case score >= 90:
		return RatingA
	case score >= 80:
		return RatingB
	case score >= 70:
		return RatingC
	case score >= 60:
		return RatingD
	default:
		return RatingF
	}
}

// SessionWindow caps the rolling session history. Oldest evicted first.
const SessionWindow = 20

// Session records one code submission's score, runtime, and detected issues.
type Session struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
	RuntimeMs float64   `json:"runtime_ms"`
	Issues    []string  `json:"issues"`
}

// PerformanceData is the performance scorer's state block.
// AverageRuntimeMs uses the blend new = (old + sample) / 2: each sample
// halves the distance to the old average. This is NOT a cumulative mean.
type PerformanceData struct {
	CodeExecutions     int              `json:"code_executions"`
	AverageRuntimeMs   float64          `json:"average_runtime_ms"`
	ErrorCount         int              `json:"error_count"`
	BestPracticesScore int              `json:"best_practices_score"` // [0,100]
	EfficiencyRating   EfficiencyRating `json:"efficiency_rating"`
	Sessions           []Session        `json:"sessions"` // len ≤ SessionWindow
}

// DefaultPerformanceData returns the first-run performance block.
func DefaultPerformanceData() PerformanceData {
	return PerformanceData{EfficiencyRating: RatingA}
}

// RecentSessions returns up to n most recent sessions, oldest first.
func (p PerformanceData) RecentSessions(n int) []Session {
	if len(p.Sessions) <= n {
		return p.Sessions
	}
	return p.Sessions[len(p.Sessions)-n:]
}

// ─── Streak ─────────────────────────────────────────────────────────────────

// MonthStats is one month bucket of the streak rollup.
type MonthStats struct {
	DaysActive          int `json:"days_active"`
	ChallengesCompleted int `json:"challenges_completed"`
}

// Milestone records a streak threshold that was crossed. At most one record
// per distinct Days value, ever.
type Milestone struct {
	Days     int    `json:"days"`
	Achieved bool   `json:"achieved"`
	Date     string `json:"date"` // day-key of the crossing
	Message  string `json:"message"`
}

// StreakData is the streak tracker's state block.
type StreakData struct {
	CurrentStreak    int                   `json:"current_streak"`
	LongestStreak    int                   `json:"longest_streak"` // running max, never decreases
	LastPlayDate     string                `json:"last_play_date"` // day-key, "" when never played
	TotalDaysPlayed  int                   `json:"total_days_played"`
	StreakHistory    []string              `json:"streak_history"` // unique day-keys, insertion order
	WeeklyGoal       int                   `json:"weekly_goal"`    // [1,7]
	MonthlyStats     map[string]MonthStats `json:"monthly_stats"`  // month-key → bucket
	StreakMilestones []Milestone           `json:"streak_milestones"`
}

// DefaultStreakData returns the first-run streak block.
func DefaultStreakData() StreakData {
	return StreakData{
		WeeklyGoal:   7,
		MonthlyStats: map[string]MonthStats{},
	}
}

// ─── Achievements ───────────────────────────────────────────────────────────

// Rarity grades how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Metric names a player measurement a requirement can gate on.
// Closed set — requirement dispatch is a uniform `metric ≥ threshold`
// comparison, never ad-hoc field presence checks.
type Metric string

const (
	MetricChallengesCompleted Metric = "challenges_completed"
	MetricTotalVariables      Metric = "total_variables"
	MetricTotalLoops          Metric = "total_loops"
	MetricTotalFunctions      Metric = "total_functions"
	MetricTotalErrors         Metric = "total_errors"
	MetricBestPractices       Metric = "best_practices_score"
	MetricStreak              Metric = "streak"
	MetricGitHubSaves         Metric = "github_saves"
)

// Requirement is a single threshold gate over one metric.
type Requirement struct {
	Metric    Metric `json:"metric"`
	Threshold int    `json:"threshold"`
}

// AchievementDef defines one achievement. The catalog is an immutable
// package-level table; unlock state is never stored on the definition.
// Requirement is nil for the two bespoke-predicate achievements
// (speed_demon, perfectionist), which are checked by named functions.
type AchievementDef struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon"`
	Description string       `json:"description"`
	Rarity      Rarity       `json:"rarity"`
	XPReward    int          `json:"xp_reward"`
	Category    string       `json:"category"`
	Requirement *Requirement `json:"requirement,omitempty"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementProgress reports how close one achievement is to unlocking.
type AchievementProgress struct {
	Completed  bool `json:"completed"`
	Percentage int  `json:"percentage"` // [0,100]
	Current    int  `json:"current"`
	Required   int  `json:"required"`
}

// CompletionStats summarizes catalog-wide unlock state for the UI.
type CompletionStats struct {
	TotalAchievements    int                     `json:"total_achievements"`
	UnlockedCount        int                     `json:"unlocked_count"`
	CompletionPercentage int                     `json:"completion_percentage"`
	TotalXPEarned        int                     `json:"total_xp_earned"`
	CategoryStats        map[string]CategoryStat `json:"category_stats"`
	RecentAchievements   []string                `json:"recent_achievements"`
	RemainingCount       int                     `json:"remaining_count"`
}

// CategoryStat is the per-category slice of CompletionStats.
type CategoryStat struct {
	Total    int `json:"total"`
	Unlocked int `json:"unlocked"`
}

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Snapshot is the read-only view of all metric sources fed to achievement
// evaluation. Built by the engine after each mutation.
type Snapshot struct {
	Progress    PlayerProgress  `json:"progress"`
	Stats       PlayerStats     `json:"stats"`
	Performance PerformanceData `json:"performance"`
}

// MetricValue resolves a requirement metric against this snapshot.
func (s Snapshot) MetricValue(m Metric) int {
	switch m {
	case MetricChallengesCompleted:
		return s.Progress.ChallengesCompleted
	case MetricTotalVariables:
		return s.Stats.Variables
	case MetricTotalLoops:
		return s.Stats.Loops
	case MetricTotalFunctions:
		return s.Stats.Functions
	case MetricTotalErrors:
		return s.Performance.ErrorCount
	case MetricBestPractices:
		return s.Performance.BestPracticesScore
	case MetricStreak:
		return s.Progress.Streak
	case MetricGitHubSaves:
		return s.Progress.GitHubSaveCount
	default:
		return 0
	}
}

// ─── Submission ─────────────────────────────────────────────────────────────

// Submission is one code-run event from the challenge/sandbox layer.
// The sandbox decides Validated; the engine never interprets code output.
type Submission struct {
	Code       string  `json:"code"`
	RuntimeMs  float64 `json:"runtime_ms"`
	Validated  bool    `json:"validated"`
	ConceptTag string  `json:"concept_tag"` // "variables", "loops", ...
}

// ScoreResult is the scorer's verdict on one submission.
type ScoreResult struct {
	Score  int              `json:"score"`
	Rating EfficiencyRating `json:"rating"`
	Issues []string         `json:"issues"`
}

// SubmissionOutcome is returned to the caller after the full
// score → XP → achievements → difficulty sequence.
type SubmissionOutcome struct {
	Result          ScoreResult `json:"result"`
	XPGained        int         `json:"xp_gained"`
	Level           int         `json:"level"`
	LeveledUp       bool        `json:"leveled_up"`
	NewAchievements []string    `json:"new_achievements"`
	Difficulty      int         `json:"difficulty"`
	Streak          int         `json:"streak"`
}

// ─── Mentor Messages ────────────────────────────────────────────────────────

// MentorMessageType categorizes mentor feed entries.
type MentorMessageType string

const (
	MentorInfo    MentorMessageType = "info"
	MentorSuccess MentorMessageType = "success"
	MentorWarning MentorMessageType = "warning"
	MentorError   MentorMessageType = "error"
	MentorHint    MentorMessageType = "hint"
)

// MentorMessage is one entry in the bounded mentor feed.
type MentorMessage struct {
	ID        int64             `json:"id"`
	Text      string            `json:"text"`
	Type      MentorMessageType `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
}
