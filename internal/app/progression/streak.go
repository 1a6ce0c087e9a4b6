package progression

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/codequest-game/codequest/internal/domain"
	"github.com/codequest-game/codequest/internal/infra/sqlite"
)

// StreakTracker maintains day-keyed coding activity: current/longest
// streaks, milestone records, and weekly/monthly rollups. A "day" counts
// once no matter how many submissions land on it — RecordActivity is
// idempotent per day-key.
type StreakTracker struct {
	db    *sqlite.DB
	clock domain.Clock

	sessionStart time.Time
	codingTime   time.Duration
}

// NewStreakTracker creates a streak tracker. The session clock starts now.
func NewStreakTracker(db *sqlite.DB, clock domain.Clock) *StreakTracker {
	return &StreakTracker{db: db, clock: clock, sessionStart: clock.Now()}
}

// streakMilestones is the canonical milestone list, used for both
// detection and next-milestone display.
var streakMilestones = []int{3, 7, 14, 30, 50, 100, 200, 365}

// milestoneMessages are the canned per-value milestone messages.
var milestoneMessages = map[int]string{
	3:   "🌟 3-day streak! You're building a habit!",
	7:   "🔥 One week strong! Consistency is key!",
	14:  "⚡ Two weeks of coding! You're on fire!",
	30:  "🏆 One month milestone! Incredible dedication!",
	50:  "💎 50 days of coding! You're a true warrior!",
	100: "🎯 100-day streak! Legendary achievement!",
	200: "🚀 200 days! You've transcended mortal limits!",
	365: "👑 One full year! You are the coding champion!",
}

func milestoneMessage(days int) string {
	if msg, ok := milestoneMessages[days]; ok {
		return msg
	}
	return fmt.Sprintf("🎉 %d-day streak! Amazing achievement!", days)
}

// RecordActivity records coding activity for the given day-key.
// Same day: no-op (idempotent). Consecutive day: extend streak. Any gap
// (including first-ever play): streak restarts at 1. LongestStreak is a
// running max and never decreases.
func (t *StreakTracker) RecordActivity(today string) (domain.StreakData, error) {
	if _, err := time.Parse(domain.DayKeyLayout, today); err != nil {
		return domain.StreakData{}, domain.ErrBadDayKey
	}

	data := t.Data()

	if data.LastPlayDate == today {
		return data, nil // already counted
	}

	if !containsDay(data.StreakHistory, today) {
		data.StreakHistory = append(data.StreakHistory, today)
	}

	if data.LastPlayDate != "" && data.LastPlayDate == domain.YesterdayKey(today) {
		data.CurrentStreak++
	} else {
		data.CurrentStreak = 1
	}
	if data.CurrentStreak > data.LongestStreak {
		data.LongestStreak = data.CurrentStreak
	}

	data.TotalDaysPlayed++
	data.LastPlayDate = today

	month := monthOfDay(today)
	bucket := data.MonthlyStats[month]
	bucket.DaysActive++
	data.MonthlyStats[month] = bucket

	// Milestone detection: at most one record per value, ever.
	for _, value := range streakMilestones {
		if data.CurrentStreak >= value && !hasMilestone(data.StreakMilestones, value) {
			data.StreakMilestones = append(data.StreakMilestones, domain.Milestone{
				Days:     value,
				Achieved: true,
				Date:     today,
				Message:  milestoneMessage(value),
			})
		}
	}

	if err := t.save(data); err != nil {
		return data, fmt.Errorf("save streak: %w", err)
	}
	return data, nil
}

// RecordChallengeDone bumps the current month's completed-challenge count.
func (t *StreakTracker) RecordChallengeDone(today string) error {
	if _, err := time.Parse(domain.DayKeyLayout, today); err != nil {
		return domain.ErrBadDayKey
	}

	data := t.Data()
	month := monthOfDay(today)
	bucket := data.MonthlyStats[month]
	bucket.ChallengesCompleted++
	data.MonthlyStats[month] = bucket
	return t.save(data)
}

// IsAtRisk reports whether an active streak will break unless the player
// codes today: last play was neither today nor yesterday.
func (t *StreakTracker) IsAtRisk() bool {
	data := t.Data()
	today := t.clock.DayKey(t.clock.Now())
	return data.LastPlayDate != today &&
		data.LastPlayDate != domain.YesterdayKey(today) &&
		data.CurrentStreak > 0
}

// WeeklyProgress reports the current calendar week (starting Sunday)
// against the weekly goal.
func (t *StreakTracker) WeeklyProgress() domain.WeeklyProgress {
	data := t.Data()
	now := t.clock.Now()
	today := t.clock.DayKey(now)
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))

	wp := domain.WeeklyProgress{WeeklyGoal: data.WeeklyGoal}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		key := t.clock.DayKey(day)
		coded := containsDay(data.StreakHistory, key)
		if coded {
			wp.DaysCoded++
		}
		wp.Days = append(wp.Days, domain.WeekDay{
			Date:    key,
			Coded:   coded,
			IsToday: key == today,
			DayName: day.Format("Mon"),
		})
	}
	wp.GoalProgress = int(math.Round(float64(wp.DaysCoded) / float64(data.WeeklyGoal) * 100))
	wp.GoalMet = wp.DaysCoded >= data.WeeklyGoal
	return wp
}

// ConsistencyRate returns days-played over days-since-first-activity as a
// rounded percentage. Empty history reports 0 over a denominator of 1.
func (t *StreakTracker) ConsistencyRate() int {
	data := t.Data()
	days := 1
	if first := earliestDay(data.StreakHistory); first != "" {
		if start, err := time.Parse(domain.DayKeyLayout, first); err == nil {
			days = int(math.Floor(t.clock.Now().Sub(start).Hours()/24)) + 1
			if days < 1 {
				days = 1
			}
		}
	}
	return int(math.Round(float64(data.TotalDaysPlayed) / float64(days) * 100))
}

// NextMilestone returns the first milestone above the current streak,
// or 999 when the list is exhausted.
func (t *StreakTracker) NextMilestone() int {
	data := t.Data()
	for _, value := range streakMilestones {
		if value > data.CurrentStreak {
			return value
		}
	}
	return 999
}

// TodayStatus is the at-a-glance view for the header widget.
func (t *StreakTracker) TodayStatus() domain.TodayStatus {
	data := t.Data()
	today := t.clock.DayKey(t.clock.Now())
	return domain.TodayStatus{
		CodedToday:         data.LastPlayDate == today,
		StreakSafe:         !t.IsAtRisk(),
		CurrentStreak:      data.CurrentStreak,
		DaysUntilMilestone: t.NextMilestone() - data.CurrentStreak,
		CodingMinutes:      t.SessionMinutes(),
	}
}

// MotivationalMessage selects from the fixed message ladder based on
// streak length and risk state. Pure function of current state.
func (t *StreakTracker) MotivationalMessage() string {
	data := t.Data()
	today := t.clock.DayKey(t.clock.Now())

	if data.LastPlayDate != today {
		switch {
		case data.CurrentStreak == 0:
			return "🌟 Start your coding journey today! Every expert was once a beginner."
		case t.IsAtRisk():
			return fmt.Sprintf("🔥 Your %d-day streak is at risk! Code today to keep it alive!", data.CurrentStreak)
		default:
			return "💻 Ready to code today? Your future self will thank you!"
		}
	}

	switch {
	case data.CurrentStreak < 3:
		return "🚀 Great start! Keep building that coding habit!"
	case data.CurrentStreak < 7:
		return "⭐ Awesome streak! You're building serious momentum!"
	case data.CurrentStreak < 30:
		return "🔥 On fire! This consistency will pay off big time!"
	default:
		return "🏆 Legendary dedication! You're a true coding warrior!"
	}
}

// SetWeeklyGoal updates the weekly goal, clamped to [1,7].
func (t *StreakTracker) SetWeeklyGoal(goal int) error {
	data := t.Data()
	data.WeeklyGoal = min(7, max(1, goal))
	return t.save(data)
}

// MonthlyReport reports the current month against an 80%-of-days goal.
func (t *StreakTracker) MonthlyReport() domain.MonthlyReport {
	data := t.Data()
	now := t.clock.Now()
	month := domain.MonthKey(now)
	bucket := data.MonthlyStats[month]

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	goal := int(math.Floor(float64(daysInMonth) * 0.8))

	return domain.MonthlyReport{
		Month:           month,
		DaysActive:      bucket.DaysActive,
		MonthlyGoal:     goal,
		MonthlyProgress: float64(bucket.DaysActive) / float64(goal) * 100,
		DaysRemaining:   daysInMonth - now.Day(),
		OnTrack:         float64(bucket.DaysActive) >= float64(now.Day())*0.8,
	}
}

// Analytics is the long-horizon consistency view.
func (t *StreakTracker) Analytics() domain.StreakAnalytics {
	data := t.Data()
	cutoff := t.clock.DayKey(t.clock.Now().AddDate(0, 0, -30))

	recent := 0
	for _, day := range data.StreakHistory {
		if day >= cutoff { // day-keys sort lexicographically
			recent++
		}
	}

	return domain.StreakAnalytics{
		TotalDays:       data.TotalDaysPlayed,
		CurrentStreak:   data.CurrentStreak,
		LongestStreak:   data.LongestStreak,
		ConsistencyRate: t.ConsistencyRate(),
		RecentActivity:  recent,
		MilestoneCount:  len(data.StreakMilestones),
		NextMilestone:   t.NextMilestone(),
	}
}

// ExportData builds the shareable snapshot of all streak views.
func (t *StreakTracker) ExportData() domain.StreakExport {
	data := t.Data()
	export := domain.StreakExport{
		Weekly:     t.WeeklyProgress(),
		Monthly:    t.MonthlyReport(),
		Milestones: data.StreakMilestones,
		ExportDate: t.clock.Now().Format(time.RFC3339),
	}
	export.Summary.CurrentStreak = data.CurrentStreak
	export.Summary.LongestStreak = data.LongestStreak
	export.Summary.TotalDaysPlayed = data.TotalDaysPlayed
	export.Summary.ConsistencyRate = t.ConsistencyRate()
	return export
}

// Tick refreshes the displayed session time. Driven by the one-minute
// daemon ticker; display-only, touches no persisted state.
func (t *StreakTracker) Tick(now time.Time) {
	if elapsed := now.Sub(t.sessionStart); elapsed > t.codingTime {
		t.codingTime = elapsed
	}
}

// SessionMinutes returns whole minutes coded this session.
func (t *StreakTracker) SessionMinutes() int {
	return int(t.codingTime.Minutes())
}

// Data returns the current streak block, defaulting when the stored
// document is absent or corrupt.
func (t *StreakTracker) Data() domain.StreakData {
	data := domain.DefaultStreakData()
	found, err := t.db.LoadDoc(sqlite.DocStreak, &data)
	if err != nil {
		log.Printf("[streak] corrupt streak doc, using defaults: %v", err)
		return domain.DefaultStreakData()
	}
	if !found {
		return domain.DefaultStreakData()
	}
	if data.MonthlyStats == nil {
		data.MonthlyStats = map[string]domain.MonthStats{}
	}
	return data
}

// Reset restores defaults, clears the persisted block, and zeroes the
// session clock.
func (t *StreakTracker) Reset() error {
	t.sessionStart = t.clock.Now()
	t.codingTime = 0
	return t.db.DeleteDoc(sqlite.DocStreak)
}

func (t *StreakTracker) save(data domain.StreakData) error {
	return t.db.SaveDoc(sqlite.DocStreak, data)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func containsDay(history []string, day string) bool {
	for _, d := range history {
		if d == day {
			return true
		}
	}
	return false
}

func hasMilestone(milestones []domain.Milestone, days int) bool {
	for _, m := range milestones {
		if m.Days == days {
			return true
		}
	}
	return false
}

// earliestDay returns the minimum day-key in history ("" when empty).
// Day-keys are ISO dates, so lexicographic order is chronological.
func earliestDay(history []string) string {
	if len(history) == 0 {
		return ""
	}
	keys := append([]string(nil), history...)
	sort.Strings(keys)
	return keys[0]
}

// monthOfDay derives the month-key from a day-key.
func monthOfDay(day string) string {
	if len(day) >= 7 {
		return day[:7]
	}
	return day
}
