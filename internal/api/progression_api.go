package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codequest-game/codequest/internal/domain"
)

// ─── Progress & Performance ─────────────────────────────────────────────────

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Controller().Progress())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Controller().Stats())
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Scorer().Data())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	completion, err := s.engine.Achievements().CompletionStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"progress":     snap.Progress,
		"stats":        snap.Stats,
		"performance":  snap.Performance,
		"streak":       s.engine.Streak().Data(),
		"achievements": completion,
		"motivation":   s.engine.Streak().MotivationalMessage(),
	})
}

// ─── Submissions ────────────────────────────────────────────────────────────

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	outcome, err := s.engine.Submit(sub)
	if err != nil {
		if errors.Is(err, domain.ErrEmptySubmission) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.RecordError(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Scorer().Data())
}

func (s *Server) handleGitHubSave(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.RecordGitHubSave(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Controller().Progress())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetAll(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// ─── Streak ─────────────────────────────────────────────────────────────────

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Streak().Data())
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Streak().WeeklyProgress())
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Streak().TodayStatus())
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Streak().MonthlyReport())
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Streak().Analytics())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Streak().ExportData())
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Goal int `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.engine.Streak().SetWeeklyGoal(req.Goal); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Streak().WeeklyProgress())
}

// ─── Achievements ───────────────────────────────────────────────────────────

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.engine.Achievements().Unlocked()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"catalog":  s.engine.Achievements().Catalog(),
		"unlocked": unlocked,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	byCat, err := s.engine.Achievements().ByCategory(s.engine.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, byCat)
}

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Achievements().CompletionStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleNextAchievements(w http.ResponseWriter, r *http.Request) {
	next, err := s.engine.Achievements().NextAchievements(s.engine.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleRecentAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Achievements().RecentlyUnlocked())
}

func (s *Server) handleAchievementProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prog, err := s.engine.Achievements().Progress(id, s.engine.Snapshot())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAchievement) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prog)
}

// ─── Mentor ─────────────────────────────────────────────────────────────────

func (s *Server) handleMentor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Mentor().Messages())
}
