// Package domain models National Weather Service (NWS) Storm Events Database
// records and the transformations that clean them.
//
// # Data Source
//
// Records come from the NOAA National Climatic Data Center (NCDC) Storm Events
// bulk CSV (commonly distributed as StormData.csv.bz2), covering severe
// weather events in the United States from 1950 onward. One row per event,
// with free-text event classification and magnitude-coded damage figures.
//
// # NCDC Data Conventions
//
// Begin date (BGN_DATE column):
//
//	"M/D/YYYY H:MM:SS" with an always-zero time component, e.g.
//	"4/18/1950 0:00:00". The format is uniform across the whole archive;
//	a row that fails to parse indicates upstream corruption and aborts the run.
//
// Event type (EVTYPE column):
//
//	Free text, uncontrolled vocabulary. The archive contains close to a
//	thousand distinct spellings ("TSTM WIND", "THUNDERSTORM WINDS",
//	"Tstm Wind/Hail", ...) for what NWS Directive 10-1605 defines as 48
//	permitted event types. [NormalizeEventType] maps every raw label onto
//	that fixed taxonomy by nearest edit distance.
//
// Damage figures (PROPDMG/PROPDMGEXP, CROPDMG/CROPDMGEXP columns):
//
//	Dollar amounts are split into a mantissa column and a one-letter
//	power-of-ten exponent column:
//
//	  H/h → 10^2   K/k → 10^3   M/m → 10^6   B/b → 10^9
//
//	Legacy rows carry digits, "-", "?", "+" or nothing in the exponent
//	column. Those decode as 10^0: the mantissa is taken at face value
//	rather than rejected, so unknown codes degrade silently instead of
//	dropping otherwise usable rows.
//
// Casualties (FATALITIES/INJURIES columns):
//
//	Non-negative counts, occasionally serialized with a decimal point
//	("0.00"), so they are parsed as floats and truncated.
//
// # Cleaning Policy
//
// A row becomes a [CleanRecord] only when it reports any impact at all: at
// least one of fatalities, injuries, property-damage mantissa, or crop-damage
// mantissa strictly positive. Zero-impact rows (the large majority of the
// archive) are dropped permanently. Surviving rows keep their input order.
package domain
