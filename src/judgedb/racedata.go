package judgedb

import (
	"fmt"
	"time"

	"github.com/yuli091280/Race-Walking-Visualization/src/locgraph"
	"github.com/yuli091280/Race-Walking-Visualization/src/logging"
)

// RaceData is everything the graph needs to plot one race.
type RaceData struct {
	Loc      map[int]locgraph.LocSeries
	Calls    locgraph.JudgeCallData
	Athletes []locgraph.AthleteInfo
	Judges   []int
}

// RaceAthletes returns the athletes of a race ordered by last then first
// name, the order the selector lists and the graph registration use.
func (d *DB) RaceAthletes(raceID int) ([]locgraph.AthleteInfo, error) {
	rows, err := d.db.Query(
		"SELECT LastName, FirstName, BibNumber FROM Athlete WHERE IDRace = ? ORDER BY LastName, FirstName", raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("athletes for race %d: %w", raceID, err)
	}
	defer rows.Close()

	var out []locgraph.AthleteInfo
	for rows.Next() {
		var a locgraph.AthleteInfo
		if err := rows.Scan(&a.LastName, &a.FirstName, &a.Bib); err != nil {
			return nil, fmt.Errorf("scanning athlete: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RaceJudges returns the distinct judges who made calls in a race.
func (d *DB) RaceJudges(raceID int) ([]int, error) {
	rows, err := d.db.Query(
		"SELECT DISTINCT IDJudge FROM JudgeCall WHERE IDRace = ? ORDER BY IDJudge", raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("judges for race %d: %w", raceID, err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning judge id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RaceLocSeries returns each athlete's sampled LOC curve, time-ascending.
func (d *DB) RaceLocSeries(raceID int) (map[int]locgraph.LocSeries, error) {
	rows, err := d.db.Query(
		"SELECT BibNumber, Time, LOCAverage FROM LOCValue WHERE IDRace = ? ORDER BY BibNumber, Time", raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("LOC values for race %d: %w", raceID, err)
	}
	defer rows.Close()

	out := make(map[int]locgraph.LocSeries)
	for rows.Next() {
		var bib int
		var ts string
		var v float64
		if err := rows.Scan(&bib, &ts, &v); err != nil {
			return nil, fmt.Errorf("scanning LOC value: %w", err)
		}
		t, err := time.Parse(timeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("LOC value time %q: %w", ts, err)
		}
		series := out[bib]
		series.Times = append(series.Times, t)
		series.Values = append(series.Values, v)
		out[bib] = series
	}
	return out, rows.Err()
}

// RaceJudgeCalls returns the race's judge calls nested by bib, judge and
// call-type key, split into yellow and red event series.
func (d *DB) RaceJudgeCalls(raceID int) (locgraph.JudgeCallData, error) {
	rows, err := d.db.Query(
		"SELECT IDJudge, IDRace, BibNumber, Time, Color, CallType FROM JudgeCall WHERE IDRace = ? ORDER BY Time", raceID,
	)
	if err != nil {
		return nil, fmt.Errorf("judge calls for race %d: %w", raceID, err)
	}
	defer rows.Close()

	out := make(locgraph.JudgeCallData)
	for rows.Next() {
		jc, err := scanJudgeCall(rows)
		if err != nil {
			return nil, err
		}
		perJudge := out[jc.Bib]
		if perJudge == nil {
			perJudge = make(map[int]map[string]locgraph.CallSeries)
			out[jc.Bib] = perJudge
		}
		perType := perJudge[jc.JudgeID]
		if perType == nil {
			perType = make(map[string]locgraph.CallSeries)
			perJudge[jc.JudgeID] = perType
		}
		series := perType[jc.CallType]
		if jc.Color == "red" {
			series.Red = append(series.Red, jc.Time)
		} else {
			series.Yellow = append(series.Yellow, jc.Time)
		}
		perType[jc.CallType] = series
	}
	return out, rows.Err()
}

// LoadRace assembles everything the graph needs to plot one race.
func (d *DB) LoadRace(raceID int) (*RaceData, error) {
	defer logging.TimeTrack(time.Now(), fmt.Sprintf("loading race %d", raceID))

	loc, err := d.RaceLocSeries(raceID)
	if err != nil {
		return nil, err
	}
	calls, err := d.RaceJudgeCalls(raceID)
	if err != nil {
		return nil, err
	}
	athletes, err := d.RaceAthletes(raceID)
	if err != nil {
		return nil, err
	}
	judges, err := d.RaceJudges(raceID)
	if err != nil {
		return nil, err
	}
	logging.Infof("race %d loaded: %d athletes, %d judges", raceID, len(athletes), len(judges))
	return &RaceData{Loc: loc, Calls: calls, Athletes: athletes, Judges: judges}, nil
}
