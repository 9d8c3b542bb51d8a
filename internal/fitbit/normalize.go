package fitbit

import (
	"fmt"
	"strconv"
)

// Cleaned, caller-facing schemas. Normalizers isolate the unstable upstream
// shapes from these types; every field access is defensive, absent values
// default to zero rather than failing, because Fitbit does not guarantee a
// uniform payload shape across metric types or historical dates.

// StepsSummary is the cleaned daily steps payload.
type StepsSummary struct {
	Date  string `json:"date"`
	Steps int    `json:"steps"`
}

// SleepStages holds minutes per sleep stage bucket.
type SleepStages struct {
	Deep  int `json:"deep"`
	Light int `json:"light"`
	Rem   int `json:"rem"`
	Wake  int `json:"wake"`
}

// SleepSummary is the cleaned daily sleep payload.
type SleepSummary struct {
	Date               string      `json:"date"`
	TotalMinutesAsleep int         `json:"total_minutes_asleep"`
	TotalTimeInBed     int         `json:"total_time_in_bed"`
	Stages             SleepStages `json:"stages"`
}

// HeartRateZone is one named heart rate zone with its time spent.
type HeartRateZone struct {
	Name    string `json:"name"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Minutes int    `json:"minutes"`
}

// HeartRateSummary is the cleaned daily heart rate payload. RestingHeartRate
// is null when Fitbit reports none for the day.
type HeartRateSummary struct {
	Date             string          `json:"date"`
	RestingHeartRate *int            `json:"resting_heart_rate"`
	Zones            []HeartRateZone `json:"zones"`
}

// NormalizeSteps extracts the first activities-steps entry's value, coerced
// to an integer; any missing field or coercion failure yields 0.
func NormalizeSteps(date string, body map[string]interface{}) StepsSummary {
	summary := StepsSummary{Date: date}
	entries := asSlice(body["activities-steps"])
	if len(entries) == 0 {
		return summary
	}
	entry := asMap(entries[0])
	if raw, ok := entry["value"]; ok {
		summary.Steps = asInt(raw)
	}
	return summary
}

// NormalizeSleep extracts the summary totals and stage buckets, defaulting
// every absent field to 0.
func NormalizeSleep(date string, body map[string]interface{}) SleepSummary {
	out := SleepSummary{Date: date}
	summary := asMap(body["summary"])
	out.TotalMinutesAsleep = asInt(summary["totalMinutesAsleep"])
	out.TotalTimeInBed = asInt(summary["totalTimeInBed"])

	stages := asMap(summary["stages"])
	out.Stages = SleepStages{
		Deep:  asInt(stages["deep"]),
		Light: asInt(stages["light"]),
		Rem:   asInt(stages["rem"]),
		Wake:  asInt(stages["wake"]),
	}
	return out
}

// NormalizeHeartRate extracts the resting heart rate (nullable) and remaps
// each heart rate zone; an absent day yields nil resting and empty zones.
func NormalizeHeartRate(date string, body map[string]interface{}) HeartRateSummary {
	out := HeartRateSummary{Date: date, Zones: []HeartRateZone{}}
	entries := asSlice(body["activities-heart"])
	if len(entries) == 0 {
		return out
	}

	value := asMap(asMap(entries[0])["value"])
	if raw, ok := value["restingHeartRate"]; ok && raw != nil {
		resting := asInt(raw)
		out.RestingHeartRate = &resting
	}

	for _, rawZone := range asSlice(value["heartRateZones"]) {
		zone := asMap(rawZone)
		out.Zones = append(out.Zones, HeartRateZone{
			Name:    asString(zone["name"]),
			Min:     asInt(zone["min"]),
			Max:     asInt(zone["max"]),
			Minutes: asInt(zone["minutes"]),
		})
	}
	return out
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func asSlice(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	return nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// asInt coerces the JSON number and string-number shapes Fitbit mixes across
// endpoints; anything else yields 0.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	case fmt.Stringer:
		if parsed, err := strconv.Atoi(n.String()); err == nil {
			return parsed
		}
	}
	return 0
}
