// Package progression implements the CodeQuest progression engine:
// quality scoring, day-streak tracking, achievement unlocking, and the
// XP/difficulty control loop. Services follow a load-mutate-save cycle
// against the SQLite state store; every mutation is persisted best-effort
// before returning.
package progression

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/codequest-game/codequest/internal/domain"
	"github.com/codequest-game/codequest/internal/infra/sqlite"
)

// Scorer converts one code submission plus its measured run time into a
// quality score and maintains the rolling performance window.
// This is a heuristic static-text scorer, not a linter: detection is
// plain substring matching, and false positives on identifier substrings
// are accepted behavior.
type Scorer struct {
	db    *sqlite.DB
	clock domain.Clock
}

// NewScorer creates a performance scorer.
func NewScorer(db *sqlite.DB, clock domain.Clock) *Scorer {
	return &Scorer{db: db, clock: clock}
}

// declPattern matches learner-code variable declarations ("let x", "const y").
var declPattern = regexp.MustCompile(`\b(?:let|const)\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

// Penalty model constants. Scoring starts at 100 and subtracts.
const (
	penaltyNestedLoops = 10
	penaltyNoVariables = 15
	penaltyLongCode    = 5
	penaltyUnusedVar   = 5
	longCodeLines      = 50
)

// Score rates one submission and records it as a session.
// Side effects: appends to the bounded session window, bumps
// CodeExecutions, blends AverageRuntimeMs, and refreshes
// BestPracticesScore and EfficiencyRating.
func (s *Scorer) Score(code string, runtimeMs float64) (domain.ScoreResult, error) {
	score := 100
	var issues []string

	// Two or more loop keywords is treated as a nested loop.
	if strings.Count(code, "for") >= 2 {
		score -= penaltyNestedLoops
		issues = append(issues, "Nested loops detected - consider optimizing")
	}

	// No declarations at all.
	if !strings.Contains(code, "let") && !strings.Contains(code, "const") {
		score -= penaltyNoVariables
		issues = append(issues, "No variables declared - use let or const")
	}

	if strings.Count(code, "\n")+1 > longCodeLines {
		score -= penaltyLongCode
		issues = append(issues, "Code is over 50 lines - consider breaking it up")
	}

	// A declared name whose identifier appears once (the declaration itself)
	// is considered unused. Not scope-aware.
	for _, name := range declaredNames(code) {
		if strings.Count(code, name) <= 1 {
			score -= penaltyUnusedVar
			issues = append(issues, fmt.Sprintf("Variable '%s' is declared but never used", name))
		}
	}

	result := domain.ScoreResult{
		Score:  score,
		Rating: domain.RatingForScore(score),
		Issues: issues,
	}

	data := s.Data()
	data.CodeExecutions++
	// Each sample halves the distance to the old average. Keep this exact
	// recurrence: it is not a cumulative mean.
	data.AverageRuntimeMs = (data.AverageRuntimeMs + runtimeMs) / 2
	data.BestPracticesScore = max(0, score)
	data.EfficiencyRating = result.Rating
	data.Sessions = append(data.Sessions, domain.Session{
		ID:        uuid.NewString(),
		Timestamp: s.clock.Now(),
		Score:     score,
		RuntimeMs: runtimeMs,
		Issues:    issues,
	})
	if len(data.Sessions) > domain.SessionWindow {
		data.Sessions = data.Sessions[len(data.Sessions)-domain.SessionWindow:]
	}

	if err := s.save(data); err != nil {
		return result, fmt.Errorf("save performance: %w", err)
	}
	return result, nil
}

// RecordError registers one post-hoc sandbox failure. The scorer never
// interprets the failure cause.
func (s *Scorer) RecordError() error {
	data := s.Data()
	data.ErrorCount++
	return s.save(data)
}

// Data returns the current performance block, defaulting when the stored
// document is absent or corrupt.
func (s *Scorer) Data() domain.PerformanceData {
	data := domain.DefaultPerformanceData()
	found, err := s.db.LoadDoc(sqlite.DocPerformance, &data)
	if err != nil {
		log.Printf("[scorer] corrupt performance doc, using defaults: %v", err)
		return domain.DefaultPerformanceData()
	}
	if !found {
		return domain.DefaultPerformanceData()
	}
	return data
}

// Reset restores defaults and clears the persisted block.
func (s *Scorer) Reset() error {
	return s.db.DeleteDoc(sqlite.DocPerformance)
}

func (s *Scorer) save(data domain.PerformanceData) error {
	return s.db.SaveDoc(sqlite.DocPerformance, data)
}

// declaredNames extracts distinct declared identifiers in order of first
// declaration.
func declaredNames(code string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range declPattern.FindAllStringSubmatch(code, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
