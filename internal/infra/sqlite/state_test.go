package sqlite

import (
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type sampleDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDocRoundTrip(t *testing.T) {
	db := testDB(t)

	if err := db.SaveDoc("sample", sampleDoc{Name: "a", Count: 3}); err != nil {
		t.Fatal(err)
	}

	var got sampleDoc
	found, err := db.LoadDoc("sample", &got)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("doc not found after save")
	}
	if got.Name != "a" || got.Count != 3 {
		t.Errorf("doc = %+v", got)
	}

	// Upsert overwrites.
	if err := db.SaveDoc("sample", sampleDoc{Name: "b", Count: 9}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.LoadDoc("sample", &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "b" || got.Count != 9 {
		t.Errorf("doc after upsert = %+v", got)
	}
}

func TestLoadDocAbsent(t *testing.T) {
	db := testDB(t)

	var got sampleDoc
	found, err := db.LoadDoc("missing", &got)
	if err != nil {
		t.Fatalf("absent doc should not error: %v", err)
	}
	if found {
		t.Error("found = true for missing doc")
	}
}

func TestDeleteDoc(t *testing.T) {
	db := testDB(t)

	if err := db.SaveDoc("sample", sampleDoc{Count: 1}); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteDoc("sample"); err != nil {
		t.Fatal(err)
	}
	var got sampleDoc
	found, err := db.LoadDoc("sample", &got)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("doc still present after delete")
	}
	// Deleting again is a no-op.
	if err := db.DeleteDoc("sample"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}

func TestUnlockAchievementIdempotent(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	inserted, err := db.UnlockAchievement("first_steps", now)
	if err != nil || !inserted {
		t.Fatalf("first unlock = %v, %v, want true, nil", inserted, err)
	}
	inserted, err = db.UnlockAchievement("first_steps", now.Add(time.Hour))
	if err != nil || inserted {
		t.Fatalf("second unlock = %v, %v, want false, nil", inserted, err)
	}

	ok, err := db.IsAchievementUnlocked("first_steps")
	if err != nil || !ok {
		t.Fatalf("unlocked check = %v, %v", ok, err)
	}
	ok, err = db.IsAchievementUnlocked("other")
	if err != nil || ok {
		t.Fatalf("unexpected unlock for 'other': %v, %v", ok, err)
	}
}

func TestListUnlockedOrder(t *testing.T) {
	db := testDB(t)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	if _, err := db.UnlockAchievement("later", base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if _, err := db.UnlockAchievement("earlier", base); err != nil {
		t.Fatal(err)
	}

	list, err := db.ListUnlockedAchievements()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %d entries, want 2", len(list))
	}
	if list[0].ID != "earlier" || list[1].ID != "later" {
		t.Errorf("order = %s, %s, want earlier then later", list[0].ID, list[1].ID)
	}

	count, err := db.UnlockedAchievementCount()
	if err != nil || count != 2 {
		t.Errorf("count = %d, %v, want 2", count, err)
	}
}

func TestResetAchievements(t *testing.T) {
	db := testDB(t)

	if _, err := db.UnlockAchievement("first_steps", time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := db.ResetAchievements(); err != nil {
		t.Fatal(err)
	}
	set, err := db.UnlockedSet()
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 0 {
		t.Errorf("set = %v, want empty", set)
	}
}
