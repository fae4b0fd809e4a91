package domain

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalEventTypes is the fixed taxonomy of NWS Directive 10-1605 event
// types. The slice order is part of the contract: it is the tie-break order
// for nearest-match normalization and for ranked summaries. Never reorder.
var CanonicalEventTypes = []string{
	"Astronomical Low Tide",
	"Avalanche",
	"Blizzard",
	"Coastal Flood",
	"Cold/Wind Chill",
	"Debris Flow",
	"Dense Fog",
	"Dense Smoke",
	"Drought",
	"Dust Devil",
	"Dust Storm",
	"Excessive Heat",
	"Extreme Cold/Wind Chill",
	"Flash Flood",
	"Flood",
	"Frost/Freeze",
	"Funnel Cloud",
	"Freezing Fog",
	"Hail",
	"Heat",
	"Heavy Rain",
	"Heavy Snow",
	"High Surf",
	"High Wind",
	"Hurricane (Typhoon)",
	"Ice Storm",
	"Lake-Effect Snow",
	"Lakeshore Flood",
	"Lightning",
	"Marine Hail",
	"Marine High Wind",
	"Marine Strong Wind",
	"Marine Thunderstorm Wind",
	"Rip Current",
	"Seiche",
	"Sleet",
	"Storm Surge/Tide",
	"Strong Wind",
	"Thunderstorm Wind",
	"Tornado",
	"Tropical Depression",
	"Tropical Storm",
	"Tsunami",
	"Volcanic Ash",
	"Waterspout",
	"Wildfire",
	"Winter Storm",
	"Winter Weather",
}

// NormalizeEventType maps an arbitrary free-text EVTYPE label onto exactly one
// canonical event type. Total and deterministic: garbage input still returns
// the nearest label by edit distance. That assignment bias is part of the
// contract — downstream totals depend on it — so do not add guard rails here.
//
// Steps, in order:
//  1. truncate at the first "/" — the archive encodes alternatives as
//     "FLOOD/FLASH FLOOD", meaning pick the first,
//  2. expand the "TSTM" abbreviation to "THUNDERSTORM" (first occurrence),
//  3. title-case to match the canonical casing,
//  4. nearest canonical label by Levenshtein distance, first minimum in
//     CanonicalEventTypes order on ties.
func NormalizeEventType(label string) string {
	if i := strings.IndexByte(label, '/'); i >= 0 {
		label = label[:i]
	}
	label = strings.Replace(label, "TSTM", "THUNDERSTORM", 1)
	label = cases.Title(language.English).String(label)

	best := CanonicalEventTypes[0]
	bestDist := levenshtein.ComputeDistance(label, best)
	for _, canonical := range CanonicalEventTypes[1:] {
		if d := levenshtein.ComputeDistance(label, canonical); d < bestDist {
			best = canonical
			bestDist = d
		}
	}
	return best
}

// IsCanonicalEventType reports membership in the fixed taxonomy.
func IsCanonicalEventType(label string) bool {
	for _, canonical := range CanonicalEventTypes {
		if label == canonical {
			return true
		}
	}
	return false
}
