// Package judgedb is the lookup layer over the judge call database. It is
// a thin fetch-by-id surface plus the per-race assembly the graph consumes;
// the viewer never writes through it.
package judgedb

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// timeFormat is how timestamps are stored in the database.
const timeFormat = time.RFC3339

// DB wraps the SQLite judge database. SQLite only supports one writer at a
// time, so the pool is capped at a single connection.
type DB struct {
	db *sql.DB
}

// Open creates or opens the judge database at the given path, applying
// pragmas and the schema. Idempotent.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// DB returns the underlying sql.DB for direct queries. Prefer the typed
// lookups when one exists.
func (d *DB) DB() *sql.DB { return d.db }

// Judge is one row of the Judge table.
type Judge struct {
	ID        int
	LastName  string
	FirstName string
}

// Athlete is one row of the Athlete table.
type Athlete struct {
	Bib       int
	RaceID    int
	LastName  string
	FirstName string
}

// Race is one row of the Race table.
type Race struct {
	ID        int
	Name      string
	Distance  string
	StartTime string
}

// JudgeCall is one judge call event.
type JudgeCall struct {
	JudgeID  int
	RaceID   int
	Bib      int
	Time     time.Time
	Color    string
	CallType string
}

// JudgeByID fetches a judge by id. A missing row returns (nil, nil);
// selector UIs only ever pass known ids, so absence is not an error.
func (d *DB) JudgeByID(id int) (*Judge, error) {
	var j Judge
	err := d.db.QueryRow(
		"SELECT IDJudge, LastName, FirstName FROM Judge WHERE IDJudge = ?", id,
	).Scan(&j.ID, &j.LastName, &j.FirstName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("judge %d: %w", id, err)
	}
	return &j, nil
}

// AthleteByBib fetches an athlete by bib number. A missing row returns
// (nil, nil).
func (d *DB) AthleteByBib(bib int) (*Athlete, error) {
	var a Athlete
	err := d.db.QueryRow(
		"SELECT BibNumber, IDRace, LastName, FirstName FROM Athlete WHERE BibNumber = ?", bib,
	).Scan(&a.Bib, &a.RaceID, &a.LastName, &a.FirstName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("athlete %d: %w", bib, err)
	}
	return &a, nil
}

// RaceByID fetches a race by id. A missing row returns (nil, nil).
func (d *DB) RaceByID(id int) (*Race, error) {
	var r Race
	var distance, start sql.NullString
	err := d.db.QueryRow(
		"SELECT IDRace, Name, Distance, StartTime FROM Race WHERE IDRace = ?", id,
	).Scan(&r.ID, &r.Name, &distance, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("race %d: %w", id, err)
	}
	r.Distance = distance.String
	r.StartTime = start.String
	return &r, nil
}

// JudgeCalls fetches every call one judge made against one athlete in one
// race, time-ascending.
func (d *DB) JudgeCalls(judgeID, raceID, bib int) ([]JudgeCall, error) {
	rows, err := d.db.Query(
		"SELECT IDJudge, IDRace, BibNumber, Time, Color, CallType FROM JudgeCall"+
			" WHERE IDJudge = ? AND IDRace = ? AND BibNumber = ? ORDER BY Time",
		judgeID, raceID, bib,
	)
	if err != nil {
		return nil, fmt.Errorf("judge calls for judge %d race %d bib %d: %w", judgeID, raceID, bib, err)
	}
	defer rows.Close()

	var out []JudgeCall
	for rows.Next() {
		jc, err := scanJudgeCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, jc)
	}
	return out, rows.Err()
}

func scanJudgeCall(rows *sql.Rows) (JudgeCall, error) {
	var jc JudgeCall
	var ts string
	if err := rows.Scan(&jc.JudgeID, &jc.RaceID, &jc.Bib, &ts, &jc.Color, &jc.CallType); err != nil {
		return jc, fmt.Errorf("scanning judge call: %w", err)
	}
	t, err := time.Parse(timeFormat, ts)
	if err != nil {
		return jc, fmt.Errorf("judge call time %q: %w", ts, err)
	}
	jc.Time = t
	return jc, nil
}
