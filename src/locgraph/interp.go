package locgraph

import "time"

// interpolate maps each event time onto the athlete's sampled LOC curve
// using linear interpolation between the two bracketing samples. Events
// before the first or after the last sample clamp to the edge values.
// Sample times are assumed ascending, which is how the database returns
// them.
func interpolate(eventTimes, sampleTimes []time.Time, sampleValues []float64) []float64 {
	out := make([]float64, len(eventTimes))
	if len(sampleTimes) == 0 {
		return out
	}
	for i, et := range eventTimes {
		out[i] = interpolateOne(et, sampleTimes, sampleValues)
	}
	return out
}

func interpolateOne(et time.Time, sampleTimes []time.Time, sampleValues []float64) float64 {
	n := len(sampleTimes)
	if !et.After(sampleTimes[0]) {
		return sampleValues[0]
	}
	if !et.Before(sampleTimes[n-1]) {
		return sampleValues[n-1]
	}
	for j := 1; j < n; j++ {
		if sampleTimes[j].Before(et) {
			continue
		}
		t0, t1 := sampleTimes[j-1], sampleTimes[j]
		v0, v1 := sampleValues[j-1], sampleValues[j]
		span := t1.Sub(t0).Seconds()
		if span <= 0 {
			return v1
		}
		frac := et.Sub(t0).Seconds() / span
		return v0 + (v1-v0)*frac
	}
	return sampleValues[n-1]
}
