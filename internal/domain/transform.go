package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// beginDateLayout matches the archive's uniform BGN_DATE format,
// e.g. "4/18/1950 0:00:00". Month, day, and hour carry no zero padding.
const beginDateLayout = "1/2/2006 15:04:05"

// Sentinel errors for fatal pipeline conditions. All are fail-fast: the
// transform is a deterministic pure function, so retrying cannot help.
var (
	// ErrMalformedDate means a BGN_DATE value broke the uniform-format
	// assumption. Run-aborting: corrupted input must surface loudly rather
	// than silently shrink the dataset.
	ErrMalformedDate = errors.New("malformed begin date")

	// ErrEmptyTable means the source contained no data rows.
	ErrEmptyTable = errors.New("empty input table")

	// ErrMissingColumn means a required column is absent from the source header.
	ErrMissingColumn = errors.New("missing required column")
)

// Normalizer maps a free-text event-type label to a canonical one.
// Implementations must be total and deterministic.
type Normalizer interface {
	Normalize(label string) string
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(label string) string

func (f NormalizerFunc) Normalize(label string) string { return f(label) }

// ParseBeginDate parses a BGN_DATE field. Failures wrap ErrMalformedDate.
func ParseBeginDate(value string) (time.Time, error) {
	t, err := time.Parse(beginDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, value)
	}
	return t, nil
}

// BuildCleanRecord runs the per-row tidy pipeline: parse the begin date, apply
// the impact keep-rule, normalize the event type, and scale both damage
// figures. ok is false when the row is dropped (zero impact). The date is
// parsed before the keep-rule so corruption is detected even on rows that
// would be dropped anyway.
func BuildCleanRecord(raw RawRecord, normalizer Normalizer) (rec CleanRecord, ok bool, err error) {
	date, err := ParseBeginDate(raw.BeginDate)
	if err != nil {
		return CleanRecord{}, false, err
	}

	if !raw.HasImpact() {
		return CleanRecord{}, false, nil
	}

	return CleanRecord{
		Date:           date,
		EventType:      normalizer.Normalize(raw.EventType),
		Fatalities:     raw.Fatalities,
		Injuries:       raw.Injuries,
		PropertyDamage: DamageValue(raw.PropDamage, raw.PropDamageExp),
		CropDamage:     DamageValue(raw.CropDamage, raw.CropDamageExp),
	}, true, nil
}

// ParseCount parses a non-negative count field. The archive serializes some
// counts with a decimal point ("0.00"), so values go through float parsing
// and truncate. Unparseable or negative input counts as zero.
func ParseCount(value string) int {
	n := ParseFloatOrZero(value)
	if n < 0 {
		return 0
	}
	return int(n)
}

// ParseFloatOrZero parses a string as float64, returning 0 on failure.
func ParseFloatOrZero(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return v
}
