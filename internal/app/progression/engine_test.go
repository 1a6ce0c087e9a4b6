package progression

import (
	"errors"
	"testing"

	"github.com/codequest-game/codequest/internal/domain"
)

func testEngine(t *testing.T, day string) (*Engine, *testClock) {
	t.Helper()
	clock := newTestClock(day)
	return NewEngine(testDB(t), clock), clock
}

func TestSubmitRejectsEmptyCode(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	_, err := eng.Submit(domain.Submission{Code: "   \n  "})
	if !errors.Is(err, domain.ErrEmptySubmission) {
		t.Fatalf("err = %v, want ErrEmptySubmission", err)
	}
	// Nothing recorded.
	if got := eng.Scorer().Data().CodeExecutions; got != 0 {
		t.Errorf("executions = %d, want 0", got)
	}
}

func TestSubmitFullPipeline(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	outcome, err := eng.Submit(domain.Submission{
		Code:       "let total = 1;\nconsole.log(total);",
		RuntimeMs:  12,
		Validated:  true,
		ConceptTag: "variables",
	})
	if err != nil {
		t.Fatal(err)
	}

	if outcome.Result.Score != 100 {
		t.Errorf("score = %d, want 100", outcome.Result.Score)
	}
	if outcome.XPGained != 100 {
		t.Errorf("xp gained = %d, want 100", outcome.XPGained)
	}
	if outcome.Streak != 1 {
		t.Errorf("streak = %d, want 1", outcome.Streak)
	}

	// First validated challenge unlocks first_steps; a perfect score also
	// pushes best practices to 100, unlocking efficiency_expert.
	want := []string{"first_steps", "efficiency_expert"}
	if len(outcome.NewAchievements) != 2 ||
		outcome.NewAchievements[0] != want[0] || outcome.NewAchievements[1] != want[1] {
		t.Errorf("achievements = %v, want %v", outcome.NewAchievements, want)
	}

	// 100 base + 25 + 150 bonus = 275: crosses the 150 threshold to level 2,
	// with the full total retained.
	p := eng.Controller().Progress()
	if p.XP != 275 || p.Level != 2 || p.XPToNext != 300 {
		t.Errorf("xp = %d, level = %d, next = %d, want 275 at level 2 (300 to next)", p.XP, p.Level, p.XPToNext)
	}
	if !outcome.LeveledUp || outcome.Level != 2 {
		t.Errorf("leveled = %v at level %d, want level-up to 2", outcome.LeveledUp, outcome.Level)
	}
	if p.ChallengesCompleted != 1 {
		t.Errorf("challenges = %d, want 1", p.ChallengesCompleted)
	}
	if p.TotalLinesWritten != 2 {
		t.Errorf("lines = %d, want 2", p.TotalLinesWritten)
	}
	if p.Streak != 1 || p.LastPlayDate != "2026-09-01" {
		t.Errorf("mirror = streak %d, last %s", p.Streak, p.LastPlayDate)
	}
	if got := eng.Controller().Stats().Variables; got != 1 {
		t.Errorf("variable uses = %d, want 1", got)
	}
}

func TestSubmitUnvalidatedStillScoresAndStreaks(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	// Scores 85 (no declarations), below the efficiency_expert bar.
	outcome, err := eng.Submit(domain.Submission{
		Code:      "doWork();\ndoWork();",
		RuntimeMs: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Streak != 1 {
		t.Errorf("streak = %d, want 1 (any submission counts as activity)", outcome.Streak)
	}
	p := eng.Controller().Progress()
	if p.ChallengesCompleted != 0 {
		t.Errorf("challenges = %d, want 0 for unvalidated code", p.ChallengesCompleted)
	}
	if len(outcome.NewAchievements) != 0 {
		t.Errorf("achievements = %v, want none", outcome.NewAchievements)
	}
}

func TestSubmitAccumulatesStreakAcrossDays(t *testing.T) {
	eng, clock := testEngine(t, "2026-08-31")

	code := "let x = 1;\nuse(x);"
	if _, err := eng.Submit(domain.Submission{Code: code}); err != nil {
		t.Fatal(err)
	}
	clock.advanceDays(1)
	outcome, err := eng.Submit(domain.Submission{Code: code})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Streak != 2 {
		t.Errorf("streak = %d, want 2", outcome.Streak)
	}
}

func TestRecordErrorFeedsBugSquasher(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	for i := 0; i < 25; i++ {
		if err := eng.RecordError(); err != nil {
			t.Fatal(err)
		}
	}
	if got := eng.Scorer().Data().ErrorCount; got != 25 {
		t.Fatalf("errors = %d, want 25", got)
	}

	unlocked, err := eng.Achievements().Unlocked()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, u := range unlocked {
		if u.ID == "bug_squasher" {
			found = true
		}
	}
	if !found {
		t.Error("bug_squasher should unlock at 25 errors")
	}
	// XP bonus landed on the progress block.
	if got := eng.Controller().Progress().Achievements; len(got) != 1 || got[0] != "bug_squasher" {
		t.Errorf("progress achievements = %v, want [bug_squasher]", got)
	}
}

func TestRecordGitHubSaveUnlocksPublisher(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	if err := eng.RecordGitHubSave(); err != nil {
		t.Fatal(err)
	}
	p := eng.Controller().Progress()
	if p.GitHubSaveCount != 1 {
		t.Errorf("saves = %d, want 1", p.GitHubSaveCount)
	}
	if len(p.Achievements) != 1 || p.Achievements[0] != "github_publisher" {
		t.Errorf("achievements = %v, want [github_publisher]", p.Achievements)
	}
	// 100 XP bonus, no level-up yet.
	if p.XP != 100 || p.Level != 1 {
		t.Errorf("xp = %d, level = %d, want 100 at level 1", p.XP, p.Level)
	}
}

func TestResetAllRestoresDefaults(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	if _, err := eng.Submit(domain.Submission{
		Code: "let x = 1;\nuse(x);", Validated: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := eng.ResetAll(); err != nil {
		t.Fatal(err)
	}

	snap := eng.Snapshot()
	if snap.Progress.Level != 1 || snap.Progress.XP != 0 || snap.Progress.ChallengesCompleted != 0 {
		t.Errorf("progress after reset = %+v", snap.Progress)
	}
	if snap.Performance.CodeExecutions != 0 {
		t.Errorf("performance after reset = %+v", snap.Performance)
	}
	if got := eng.Streak().Data().CurrentStreak; got != 0 {
		t.Errorf("streak after reset = %d", got)
	}
	unlocked, err := eng.Achievements().Unlocked()
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 0 {
		t.Errorf("achievements after reset = %v", unlocked)
	}
	if msgs := eng.Mentor().Messages(); len(msgs) != 0 {
		t.Errorf("mentor feed after reset = %v", msgs)
	}
}

func TestRecordErrorPushesMentorMessage(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	if err := eng.RecordError(); err != nil {
		t.Fatal(err)
	}
	msgs := eng.Mentor().Messages()
	if len(msgs) == 0 {
		t.Fatal("mentor feed empty after error")
	}
	if msgs[len(msgs)-1].Type != domain.MentorError {
		t.Errorf("last message type = %s, want error", msgs[len(msgs)-1].Type)
	}
}

func TestLowScorePushesMentorWarning(t *testing.T) {
	eng, _ := testEngine(t, "2026-09-01")

	// Nested loops plus seven unused declarations: 100 - 10 - 35 = 55.
	code := "for (;;) { for (;;) {} }\n" +
		"let aa1;\nlet aa2;\nlet aa3;\nlet aa4;\nlet aa5;\nlet aa6;\nlet aa7;"
	outcome, err := eng.Submit(domain.Submission{Code: code})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Result.Score != 55 {
		t.Fatalf("score = %d, want 55", outcome.Result.Score)
	}
	msgs := eng.Mentor().Messages()
	if len(msgs) == 0 || msgs[len(msgs)-1].Type != domain.MentorWarning {
		t.Errorf("messages = %v, want trailing warning", msgs)
	}
}

func TestMilestonePushesMentorMessage(t *testing.T) {
	eng, clock := testEngine(t, "2026-08-25")

	code := "doWork();\ndoWork();"
	for i := 0; i < 3; i++ {
		if _, err := eng.Submit(domain.Submission{Code: code}); err != nil {
			t.Fatal(err)
		}
		clock.advanceDays(1)
	}

	// The third consecutive day crosses the 3-day milestone.
	found := false
	for _, msg := range eng.Mentor().Messages() {
		if msg.Type == domain.MentorInfo {
			found = true
		}
	}
	if !found {
		t.Error("no milestone message in the mentor feed")
	}
}

func TestMentorFeedBounded(t *testing.T) {
	feed := NewMentorFeed(newTestClock("2026-09-01"))

	for i := 0; i < 8; i++ {
		feed.Push("message", domain.MentorInfo)
	}
	msgs := feed.Messages()
	if len(msgs) != mentorFeedSize {
		t.Fatalf("feed = %d messages, want %d", len(msgs), mentorFeedSize)
	}
	// Oldest dropped: ids 4..8 remain.
	if msgs[0].ID != 4 || msgs[len(msgs)-1].ID != 8 {
		t.Errorf("ids = %d..%d, want 4..8", msgs[0].ID, msgs[len(msgs)-1].ID)
	}
}
