// Package metrics provides Prometheus metrics for CodeQuest — counters
// and gauges for submissions, XP, achievements, streaks, and difficulty.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Submissions ────────────────────────────────────────────────────────────

// SubmissionsScored tracks code submissions run through the scorer.
var SubmissionsScored = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codequest",
	Name:      "submissions_scored_total",
	Help:      "Total code submissions scored.",
})

// SubmissionErrors tracks recorded runtime/compile errors.
var SubmissionErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codequest",
	Name:      "submission_errors_total",
	Help:      "Total runtime and compile errors recorded.",
})

// ─── Progression ────────────────────────────────────────────────────────────

// XPAwarded tracks total XP handed out, submissions and bonuses alike.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codequest",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codequest",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// DifficultyLevel tracks the current difficulty setting (1-5).
var DifficultyLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "codequest",
	Name:      "difficulty_level",
	Help:      "Current difficulty setting (1-5).",
})

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementsUnlocked tracks achievement unlock events.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "codequest",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakDays tracks the current streak length in days.
var StreakDays = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "codequest",
	Name:      "streak_days_current",
	Help:      "Current coding streak length in days.",
})
