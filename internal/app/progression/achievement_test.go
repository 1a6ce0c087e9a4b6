package progression

import (
	"errors"
	"testing"

	"github.com/codequest-game/codequest/internal/domain"
)

func snapshotWith(modify func(*domain.Snapshot)) domain.Snapshot {
	snap := domain.Snapshot{
		Progress:    domain.DefaultPlayerProgress(),
		Performance: domain.DefaultPerformanceData(),
	}
	if modify != nil {
		modify(&snap)
	}
	return snap
}

func TestEvaluateUnlocksInCatalogOrder(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	snap := snapshotWith(func(s *domain.Snapshot) {
		s.Progress.ChallengesCompleted = 1
		s.Stats.Variables = 50
	})
	fresh, err := e.Evaluate(snap)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 2 {
		t.Fatalf("unlocked %d, want 2", len(fresh))
	}
	if fresh[0].ID != "first_steps" || fresh[1].ID != "variable_master" {
		t.Errorf("order = %s, %s, want first_steps then variable_master", fresh[0].ID, fresh[1].ID)
	}
}

func TestEvaluateIsOneShot(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	snap := snapshotWith(func(s *domain.Snapshot) {
		s.Progress.ChallengesCompleted = 1
	})
	if _, err := e.Evaluate(snap); err != nil {
		t.Fatal(err)
	}
	again, err := e.Evaluate(snap)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 0 {
		t.Errorf("re-evaluate unlocked %v, want nothing", again)
	}
}

func TestUnlockSurvivesMetricDrop(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	if _, err := e.Evaluate(snapshotWith(func(s *domain.Snapshot) {
		s.Progress.Streak = 7
	})); err != nil {
		t.Fatal(err)
	}

	// Streak broke; the unlock must stand.
	prog, err := e.Progress("streak_warrior", snapshotWith(func(s *domain.Snapshot) {
		s.Progress.Streak = 0
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !prog.Completed || prog.Percentage != 100 {
		t.Errorf("progress = %+v, want completed at 100%%", prog)
	}
}

func TestProgressPercentage(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	prog, err := e.Progress("variable_master", snapshotWith(func(s *domain.Snapshot) {
		s.Stats.Variables = 25
	}))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Completed {
		t.Error("should not be completed at 25/50")
	}
	if prog.Percentage != 50 || prog.Current != 25 || prog.Required != 50 {
		t.Errorf("progress = %+v, want 50%% (25/50)", prog)
	}

	// Over-threshold without unlock still caps display at 100.
	prog, err = e.Progress("loop_master", snapshotWith(func(s *domain.Snapshot) {
		s.Stats.Loops = 99
	}))
	if err != nil {
		t.Fatal(err)
	}
	if prog.Percentage != 100 {
		t.Errorf("percentage = %d, want capped at 100", prog.Percentage)
	}
}

func TestProgressUnknownID(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	_, err := e.Progress("no_such_badge", snapshotWith(nil))
	if !errors.Is(err, domain.ErrUnknownAchievement) {
		t.Errorf("err = %v, want ErrUnknownAchievement", err)
	}
}

func TestSpeedDemonPredicate(t *testing.T) {
	fastSessions := func(n int) []domain.Session {
		sessions := make([]domain.Session, n)
		for i := range sessions {
			sessions[i] = domain.Session{Score: 85, RuntimeMs: 1000}
		}
		return sessions
	}

	if speedDemonQualified(domain.PerformanceData{Sessions: fastSessions(4)}) {
		t.Error("4 fast sessions should not qualify")
	}
	if !speedDemonQualified(domain.PerformanceData{Sessions: fastSessions(5)}) {
		t.Error("5 fast sessions should qualify")
	}

	// Slow or low-scoring sessions don't count.
	slow := fastSessions(5)
	slow[0].RuntimeMs = 40000
	if speedDemonQualified(domain.PerformanceData{Sessions: slow}) {
		t.Error("only 4 qualifying sessions, should not qualify")
	}
}

func TestPerfectionistPredicate(t *testing.T) {
	scores := func(vals ...int) domain.PerformanceData {
		var sessions []domain.Session
		for _, v := range vals {
			sessions = append(sessions, domain.Session{Score: v})
		}
		return domain.PerformanceData{Sessions: sessions}
	}

	if perfectionistQualified(scores(100, 100)) {
		t.Error("two sessions can never qualify")
	}
	if !perfectionistQualified(scores(100, 100, 100)) {
		t.Error("three consecutive perfects should qualify")
	}
	if perfectionistQualified(scores(100, 95, 100, 100)) {
		t.Error("broken run should not qualify")
	}
	if !perfectionistQualified(scores(80, 90, 100, 100, 100)) {
		t.Error("run at the tail of the window should qualify")
	}
	// The run must sit inside the last 5 sessions.
	if perfectionistQualified(scores(100, 100, 100, 90, 90, 90, 90, 90)) {
		t.Error("old run outside the window should not qualify")
	}
}

func TestManualUnlock(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	ok, err := e.ManualUnlock("speed_demon")
	if err != nil || !ok {
		t.Fatalf("first unlock = %v, %v, want true, nil", ok, err)
	}
	ok, err = e.ManualUnlock("speed_demon")
	if err != nil || ok {
		t.Fatalf("second unlock = %v, %v, want false, nil", ok, err)
	}
	if _, err := e.ManualUnlock("no_such_badge"); !errors.Is(err, domain.ErrUnknownAchievement) {
		t.Errorf("err = %v, want ErrUnknownAchievement", err)
	}
}

func TestCompletionStats(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	if _, err := e.ManualUnlock("first_steps"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ManualUnlock("perfectionist"); err != nil {
		t.Fatal(err)
	}

	stats, err := e.CompletionStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalAchievements != 10 || stats.UnlockedCount != 2 {
		t.Errorf("stats = %+v, want 2 of 10", stats)
	}
	if stats.CompletionPercentage != 20 {
		t.Errorf("percentage = %d, want 20", stats.CompletionPercentage)
	}
	if stats.TotalXPEarned != 225 { // 25 + 200
		t.Errorf("xp earned = %d, want 225", stats.TotalXPEarned)
	}
	if stats.RemainingCount != 8 {
		t.Errorf("remaining = %d, want 8", stats.RemainingCount)
	}
	if stats.CategoryStats["progression"].Unlocked != 1 {
		t.Errorf("progression category = %+v", stats.CategoryStats["progression"])
	}
}

func TestNextAchievementsSortedByCloseness(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	next, err := e.NextAchievements(snapshotWith(func(s *domain.Snapshot) {
		s.Stats.Variables = 30 // 60% toward variable_master
		s.Stats.Loops = 18     // 90% toward loop_master
		s.Stats.Functions = 3  // 20%, below the cut
	}))
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 2 {
		t.Fatalf("next = %d entries, want 2", len(next))
	}
	if next[0].ID != "loop_master" || next[1].ID != "variable_master" {
		t.Errorf("order = %s, %s, want loop_master first", next[0].ID, next[1].ID)
	}
}

func TestUnlockedCount(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	if got, err := e.UnlockedCount(); err != nil || got != 0 {
		t.Fatalf("count = %d, %v, want 0", got, err)
	}
	if _, err := e.ManualUnlock("first_steps"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.ManualUnlock("loop_master"); err != nil {
		t.Fatal(err)
	}
	if got, err := e.UnlockedCount(); err != nil || got != 2 {
		t.Errorf("count = %d, %v, want 2", got, err)
	}
}

func TestResetClearsUnlocks(t *testing.T) {
	e := NewAchievementEngine(testDB(t), newTestClock("2026-09-01"))

	if _, err := e.ManualUnlock("first_steps"); err != nil {
		t.Fatal(err)
	}
	if err := e.Reset(); err != nil {
		t.Fatal(err)
	}
	unlocked, err := e.Unlocked()
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 0 {
		t.Errorf("unlocked = %v, want none after reset", unlocked)
	}
	if recent := e.RecentlyUnlocked(); len(recent) != 0 {
		t.Errorf("recent = %v, want cleared", recent)
	}
}
