package domain

import "sort"

// Ranked-list lengths for the report tables.
const (
	HealthTopN   = 5
	EconomicTopN = 10
)

// impactTotals accumulates per-event-type sums in a single grouped pass.
type impactTotals struct {
	fatalities int
	injuries   int
	damage     float64
}

// groupByEventType visits every record exactly once, fusing the fatality,
// injury, and damage sums into one pass.
func groupByEventType(records []CleanRecord) map[string]*impactTotals {
	groups := make(map[string]*impactTotals)
	for i := range records {
		r := &records[i]
		t := groups[r.EventType]
		if t == nil {
			t = &impactTotals{}
			groups[r.EventType] = t
		}
		t.fatalities += r.Fatalities
		t.injuries += r.Injuries
		t.damage += r.PropertyDamage + r.CropDamage
	}
	return groups
}

// rank orders groups descending by the chosen metric, truncated to limit.
// Groups are seeded in CanonicalEventTypes order and sorted stably, so equal
// totals resolve to the canonical enumeration order deterministically.
func rank(groups map[string]*impactTotals, metric string, value func(*impactTotals) float64, limit int) []SummaryRow {
	rows := make([]SummaryRow, 0, len(groups))
	for _, canonical := range CanonicalEventTypes {
		t, ok := groups[canonical]
		if !ok {
			continue
		}
		rows = append(rows, SummaryRow{EventType: canonical, Metric: metric, Value: value(t)})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Value > rows[j].Value
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// SummarizeHealth ranks event types by total fatalities and total injuries,
// each truncated to the top 5.
func SummarizeHealth(records []CleanRecord) (fatalities, injuries []SummaryRow) {
	groups := groupByEventType(records)
	fatalities = rank(groups, MetricFatalities, func(t *impactTotals) float64 { return float64(t.fatalities) }, HealthTopN)
	injuries = rank(groups, MetricInjuries, func(t *impactTotals) float64 { return float64(t.injuries) }, HealthTopN)
	return fatalities, injuries
}

// SummarizeEconomic ranks event types by combined property and crop damage,
// truncated to the top 10.
func SummarizeEconomic(records []CleanRecord) []SummaryRow {
	groups := groupByEventType(records)
	return rank(groups, MetricTotalDamage, func(t *impactTotals) float64 { return t.damage }, EconomicTopN)
}

// BuildReport assembles the full report from a clean table. rowsRead is the
// raw row count before filtering, for run accounting.
func BuildReport(records []CleanRecord, rowsRead int) *Report {
	fatalities, injuries := SummarizeHealth(records)
	return &Report{
		Records:       records,
		TopFatalities: fatalities,
		TopInjuries:   injuries,
		TopDamage:     SummarizeEconomic(records),
		RowsRead:      rowsRead,
		RowsKept:      len(records),
		GeneratedAt:   clock.Now(),
	}
}
