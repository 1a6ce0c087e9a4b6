package progression

import (
	"testing"
	"time"

	"github.com/codequest-game/codequest/internal/domain"
	"github.com/codequest-game/codequest/internal/infra/sqlite"
)

// testDB opens a throwaway database in a temp dir.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testClock is a mutable clock for driving day boundaries in tests.
type testClock struct {
	now time.Time
}

func newTestClock(day string) *testClock {
	t, err := time.Parse(domain.DayKeyLayout, day)
	if err != nil {
		panic(err)
	}
	return &testClock{now: t}
}

func (c *testClock) Now() time.Time            { return c.now }
func (c *testClock) DayKey(t time.Time) string { return t.Format(domain.DayKeyLayout) }
func (c *testClock) advanceDays(n int)         { c.now = c.now.AddDate(0, 0, n) }
func (c *testClock) today() string             { return c.now.Format(domain.DayKeyLayout) }
