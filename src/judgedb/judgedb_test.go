package judgedb

import (
	"path/filepath"
	"testing"
	"time"
)

var raceStart = time.Date(2023, 6, 10, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "judge.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// seedRace loads the two-athlete fixture: Doe, Jane (1) with two LOC
// samples and one yellow LOC call by judge 10, Roe, Rick (2) with two
// samples and no calls.
func seedRace(t *testing.T, d *DB) {
	t.Helper()
	stmts := []struct {
		sql  string
		args []any
	}{
		{"INSERT INTO Race (IDRace, Name, Distance, StartTime) VALUES (?, ?, ?, ?)",
			[]any{1, "Nationals 20km", "20km", raceStart.Format(timeFormat)}},
		{"INSERT INTO Judge (IDJudge, LastName, FirstName) VALUES (?, ?, ?)",
			[]any{10, "Stern", "Alice"}},
		{"INSERT INTO Athlete (BibNumber, IDRace, LastName, FirstName) VALUES (?, ?, ?, ?)",
			[]any{1, 1, "Doe", "Jane"}},
		{"INSERT INTO Athlete (BibNumber, IDRace, LastName, FirstName) VALUES (?, ?, ?, ?)",
			[]any{2, 1, "Roe", "Rick"}},
		{"INSERT INTO LOCValue (IDRace, BibNumber, Time, LOCAverage) VALUES (?, ?, ?, ?)",
			[]any{1, 1, raceStart.Format(timeFormat), 40.0}},
		{"INSERT INTO LOCValue (IDRace, BibNumber, Time, LOCAverage) VALUES (?, ?, ?, ?)",
			[]any{1, 1, raceStart.Add(10 * time.Second).Format(timeFormat), 60.0}},
		{"INSERT INTO LOCValue (IDRace, BibNumber, Time, LOCAverage) VALUES (?, ?, ?, ?)",
			[]any{1, 2, raceStart.Format(timeFormat), 30.0}},
		{"INSERT INTO LOCValue (IDRace, BibNumber, Time, LOCAverage) VALUES (?, ?, ?, ?)",
			[]any{1, 2, raceStart.Add(10 * time.Second).Format(timeFormat), 35.0}},
		{"INSERT INTO JudgeCall (IDJudge, IDRace, BibNumber, Time, Color, CallType) VALUES (?, ?, ?, ?, ?, ?)",
			[]any{10, 1, 1, raceStart.Add(5 * time.Second).Format(timeFormat), "yellow", "loc"}},
	}
	for _, s := range stmts {
		if _, err := d.DB().Exec(s.sql, s.args...); err != nil {
			t.Fatalf("seed %q failed: %v", s.sql, err)
		}
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "judge.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	seedRace(t, d)
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer d2.Close()
	race, err := d2.RaceByID(1)
	if err != nil {
		t.Fatalf("RaceByID failed: %v", err)
	}
	if race == nil || race.Name != "Nationals 20km" {
		t.Fatalf("seeded race lost across reopen: %+v", race)
	}
}

func TestLookups_MissingRowsAreNilNotError(t *testing.T) {
	d := openTestDB(t)
	if j, err := d.JudgeByID(404); err != nil || j != nil {
		t.Fatalf("JudgeByID(404) = (%+v, %v), want (nil, nil)", j, err)
	}
	if a, err := d.AthleteByBib(404); err != nil || a != nil {
		t.Fatalf("AthleteByBib(404) = (%+v, %v), want (nil, nil)", a, err)
	}
	if r, err := d.RaceByID(404); err != nil || r != nil {
		t.Fatalf("RaceByID(404) = (%+v, %v), want (nil, nil)", r, err)
	}
}

func TestLookups_ReturnSeededRows(t *testing.T) {
	d := openTestDB(t)
	seedRace(t, d)

	j, err := d.JudgeByID(10)
	if err != nil {
		t.Fatalf("JudgeByID failed: %v", err)
	}
	if j == nil || j.LastName != "Stern" || j.FirstName != "Alice" {
		t.Fatalf("judge = %+v", j)
	}

	a, err := d.AthleteByBib(2)
	if err != nil {
		t.Fatalf("AthleteByBib failed: %v", err)
	}
	if a == nil || a.LastName != "Roe" || a.RaceID != 1 {
		t.Fatalf("athlete = %+v", a)
	}

	r, err := d.RaceByID(1)
	if err != nil {
		t.Fatalf("RaceByID failed: %v", err)
	}
	if r == nil || r.Distance != "20km" {
		t.Fatalf("race = %+v", r)
	}
}

func TestJudgeCalls_OrderedAndParsed(t *testing.T) {
	d := openTestDB(t)
	seedRace(t, d)
	// a later red call inserted first must still come out second
	_, err := d.DB().Exec(
		"INSERT INTO JudgeCall (IDJudge, IDRace, BibNumber, Time, Color, CallType) VALUES (?, ?, ?, ?, ?, ?)",
		10, 1, 1, raceStart.Add(8*time.Second).Format(timeFormat), "red", "loc",
	)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	calls, err := d.JudgeCalls(10, 1, 1)
	if err != nil {
		t.Fatalf("JudgeCalls failed: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(calls))
	}
	if !calls[0].Time.Equal(raceStart.Add(5 * time.Second)) {
		t.Fatalf("first call time = %v", calls[0].Time)
	}
	if calls[1].Color != "red" || !calls[1].Time.Equal(raceStart.Add(8*time.Second)) {
		t.Fatalf("second call = %+v", calls[1])
	}
}

func TestJudgeCall_ColorConstraintEnforced(t *testing.T) {
	d := openTestDB(t)
	seedRace(t, d)
	_, err := d.DB().Exec(
		"INSERT INTO JudgeCall (IDJudge, IDRace, BibNumber, Time, Color, CallType) VALUES (?, ?, ?, ?, ?, ?)",
		10, 1, 1, raceStart.Format(timeFormat), "green", "loc",
	)
	if err == nil {
		t.Fatal("insert with an unknown card color should fail the CHECK constraint")
	}
}
