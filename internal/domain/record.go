package domain

import "time"

// RawRecord is one row of the Storm Events bulk CSV, restricted to the columns
// the cleaning pipeline consumes. No invariants hold on the raw data: labels
// are free text and exponent codes may be anything.
type RawRecord struct {
	BeginDate     string  // BGN_DATE, "M/D/YYYY H:MM:SS"
	EventType     string  // EVTYPE, uncontrolled vocabulary
	Fatalities    int     // FATALITIES
	Injuries      int     // INJURIES
	PropDamage    float64 // PROPDMG mantissa
	PropDamageExp string  // PROPDMGEXP, single character or blank
	CropDamage    float64 // CROPDMG mantissa
	CropDamageExp string  // CROPDMGEXP, single character or blank
}

// HasImpact reports whether the row carries any health or economic impact.
// Rows without impact never become CleanRecords.
func (r RawRecord) HasImpact() bool {
	return r.Fatalities > 0 || r.Injuries > 0 || r.PropDamage > 0 || r.CropDamage > 0
}

// CleanRecord is the tidy form of a surviving raw row: the event type is a
// member of the canonical 48-label set and damage figures are full dollar
// amounts. CleanRecords are write-once; nothing mutates them after the build.
type CleanRecord struct {
	Date           time.Time `json:"date"`
	EventType      string    `json:"event_type"`
	Fatalities     int       `json:"fatalities"`
	Injuries       int       `json:"injuries"`
	PropertyDamage float64   `json:"property_damage"`
	CropDamage     float64   `json:"crop_damage"`
}

// Metric names used in SummaryRow.
const (
	MetricFatalities  = "fatalities"
	MetricInjuries    = "injuries"
	MetricTotalDamage = "total_damage"
)

// SummaryRow is one entry of a ranked summary table.
type SummaryRow struct {
	EventType string  `json:"event_type"`
	Metric    string  `json:"metric_name"`
	Value     float64 `json:"metric_value"`
}

// Report bundles everything the downstream charting collaborator consumes:
// the clean table plus the ranked health and economic summaries.
type Report struct {
	Records []CleanRecord `json:"-"`

	TopFatalities []SummaryRow `json:"top_fatalities"` // top 5, descending
	TopInjuries   []SummaryRow `json:"top_injuries"`   // top 5, descending
	TopDamage     []SummaryRow `json:"top_damage"`     // top 10, descending

	RowsRead    int       `json:"rows_read"`
	RowsKept    int       `json:"rows_kept"`
	GeneratedAt time.Time `json:"generated_at"`
}
