package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codequest-game/codequest/internal/domain"
)

// Document keys for the four persisted state blocks. Each is read once at
// startup and rewritten after every mutation to its owning block.
const (
	DocProgress    = "player_progress"
	DocStats       = "player_stats"
	DocPerformance = "performance"
	DocStreak      = "streak"
)

// ─── State Documents ────────────────────────────────────────────────────────

// SaveDoc marshals v to JSON and upserts it under key.
func (d *DB) SaveDoc(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = d.db.Exec(
		`INSERT INTO state_docs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, string(data), time.Now().Unix(),
	)
	return err
}

// LoadDoc unmarshals the stored document for key into dst.
// Returns (false, nil) when the key is absent. A corrupt document returns
// an error; callers fall back to the block's default value.
func (d *DB) LoadDoc(key string, dst any) (bool, error) {
	var raw string
	err := d.db.QueryRow(`SELECT value FROM state_docs WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// DeleteDoc removes a state document. Used by per-block resets.
func (d *DB) DeleteDoc(key string) error {
	_, err := d.db.Exec(`DELETE FROM state_docs WHERE key = ?`, key)
	return err
}

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(id string, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`,
		id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (d *DB) IsAchievementUnlocked(id string) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnlockedAchievements returns all unlocked achievements, oldest first.
// Unlock order matters: PlayerProgress.Achievements is append-only.
func (d *DB) ListUnlockedAchievements() ([]domain.UnlockedAchievement, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocked []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var at int64
		if err := rows.Scan(&a.ID, &at); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(at, 0)
		unlocked = append(unlocked, a)
	}
	return unlocked, rows.Err()
}

// UnlockedSet returns the unlocked achievement ids as a membership set.
func (d *DB) UnlockedSet() (map[string]bool, error) {
	list, err := d.ListUnlockedAchievements()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(list))
	for _, a := range list {
		set[a.ID] = true
	}
	return set, nil
}

// UnlockedAchievementCount returns the total number of unlocked achievements.
func (d *DB) UnlockedAchievementCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements`).Scan(&count)
	return count, err
}

// ResetAchievements clears all unlock records. Explicit reset only —
// nothing else ever removes a row from this table.
func (d *DB) ResetAchievements() error {
	_, err := d.db.Exec(`DELETE FROM achievements`)
	return err
}
