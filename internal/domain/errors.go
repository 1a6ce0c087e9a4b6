package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Engine-internal
// faults are handled by clamping or defaulting; these sentinels cover the
// few cases callers need to distinguish.

var (
	// Achievement errors
	ErrUnknownAchievement = errors.New("achievement id not in catalog")

	// Submission errors
	ErrEmptySubmission = errors.New("submission contains no code")

	// Day-key errors
	ErrBadDayKey = errors.New("malformed day-key, want YYYY-MM-DD")
)
