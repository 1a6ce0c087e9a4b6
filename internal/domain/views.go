package domain

// ─── Derived Read Models ────────────────────────────────────────────────────
// Pure views computed from the state blocks for the presentation layer.
// Nothing here is persisted.

// WeekDay is one cell of the current-week activity strip.
type WeekDay struct {
	Date    string `json:"date"` // day-key
	Coded   bool   `json:"coded"`
	IsToday bool   `json:"is_today"`
	DayName string `json:"day_name"` // "Sun", "Mon", ...
}

// WeeklyProgress reports the current calendar week against the weekly goal.
// The week starts on the most recent Sunday.
type WeeklyProgress struct {
	Days         []WeekDay `json:"days"`
	DaysCoded    int       `json:"days_coded"`
	WeeklyGoal   int       `json:"weekly_goal"`
	GoalProgress int       `json:"goal_progress"` // percent, rounded
	GoalMet      bool      `json:"goal_met"`
}

// TodayStatus is the at-a-glance streak state for today.
type TodayStatus struct {
	CodedToday         bool `json:"coded_today"`
	StreakSafe         bool `json:"streak_safe"`
	CurrentStreak      int  `json:"current_streak"`
	DaysUntilMilestone int  `json:"days_until_milestone"`
	CodingMinutes      int  `json:"coding_minutes"` // refreshed by the minute tick
}

// MonthlyReport reports the current month against an 80%-of-days goal.
type MonthlyReport struct {
	Month           string  `json:"month"` // month-key
	DaysActive      int     `json:"days_active"`
	MonthlyGoal     int     `json:"monthly_goal"`
	MonthlyProgress float64 `json:"monthly_progress"` // percent
	DaysRemaining   int     `json:"days_remaining"`
	OnTrack         bool    `json:"on_track"`
}

// StreakAnalytics is the long-horizon consistency view.
type StreakAnalytics struct {
	TotalDays       int `json:"total_days"`
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	ConsistencyRate int `json:"consistency_rate"` // percent, rounded
	RecentActivity  int `json:"recent_activity"`  // active days in last 30
	MilestoneCount  int `json:"milestone_count"`
	NextMilestone   int `json:"next_milestone"`
}

// StreakExport is the shareable snapshot of all streak views.
type StreakExport struct {
	Summary struct {
		CurrentStreak   int `json:"current_streak"`
		LongestStreak   int `json:"longest_streak"`
		TotalDaysPlayed int `json:"total_days_played"`
		ConsistencyRate int `json:"consistency_rate"`
	} `json:"summary"`
	Weekly     WeeklyProgress `json:"weekly"`
	Monthly    MonthlyReport  `json:"monthly"`
	Milestones []Milestone    `json:"milestones"`
	ExportDate string         `json:"export_date"`
}

// AchievementView pairs a catalog definition with per-player state.
type AchievementView struct {
	AchievementDef
	Unlocked bool                `json:"unlocked"`
	Progress AchievementProgress `json:"progress"`
}
