// Command validate checks a Storm Events CSV against the pipeline's input
// contract before a report run: required columns present, begin dates in the
// uniform archive format, numeric fields parseable, and exponent codes within
// the documented vocabulary. It also previews how many distinct raw event-type
// labels the normalizer will have to map off-taxonomy.
//
// Usage:
//
//	go run ./cmd/validate -input StormData.csv.bz2
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvfile"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	input := flag.String("input", "", "path of the Storm Events CSV (.csv or .csv.bz2)")
	maxErrors := flag.Int("max-errors", 10, "errors to print per phase")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*input, *maxErrors); code != 0 {
		os.Exit(code)
	}
}

func run(input string, maxErrors int) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rows, err := csvfile.NewReader(input, logger).ReadAll(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load source table: %v\n", err)
		return 1
	}

	fmt.Println("=== Storm Events Input Contract Validation ===")
	fmt.Printf("rows: %d\n\n", len(rows))

	phases := []*phase{
		validateDates(rows),
		validateExponentCodes(rows),
		validateLabels(rows),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for i, e := range p.errors {
			if i == maxErrors {
				fmt.Printf("       ... and %d more\n", len(p.errors)-maxErrors)
				break
			}
			fmt.Printf("       %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	fmt.Println("\nall phases passed")
	return 0
}

// validateDates confirms every BGN_DATE parses; one failure would abort a
// real report run, so validation surfaces all of them at once.
func validateDates(rows []domain.RawRecord) *phase {
	p := &phase{name: "begin dates parse"}
	for i := range rows {
		if _, err := domain.ParseBeginDate(rows[i].BeginDate); err != nil {
			p.errorf("row %d: %v", i+2, err)
		}
	}
	return p
}

// validateExponentCodes flags codes outside the documented H/K/M/B vocabulary.
// These are not contract violations (they decode as 10^0 by policy), so the
// phase only fails when a mantissa would silently lose its scale.
func validateExponentCodes(rows []domain.RawRecord) *phase {
	p := &phase{name: "exponent codes recognized"}
	for i := range rows {
		r := &rows[i]
		if r.PropDamage > 0 && unknownCode(r.PropDamageExp) {
			p.errorf("row %d: PROPDMGEXP %q decodes as 10^0 against mantissa %g", i+2, r.PropDamageExp, r.PropDamage)
		}
		if r.CropDamage > 0 && unknownCode(r.CropDamageExp) {
			p.errorf("row %d: CROPDMGEXP %q decodes as 10^0 against mantissa %g", i+2, r.CropDamageExp, r.CropDamage)
		}
	}
	return p
}

func unknownCode(code string) bool {
	return strings.TrimSpace(code) != "" && domain.DecodeExponent(code) == 0
}

// validateLabels reports taxonomy coverage: how many distinct raw labels are
// already canonical versus needing a nearest-match assignment. Informational
// only; the normalizer is total, so the phase always passes.
func validateLabels(rows []domain.RawRecord) *phase {
	p := &phase{name: "event-type label coverage"}

	distinct := make(map[string]bool)
	exact := 0
	for i := range rows {
		label := rows[i].EventType
		if distinct[label] {
			continue
		}
		distinct[label] = true
		if domain.IsCanonicalEventType(strings.TrimSpace(label)) {
			exact++
		}
	}

	fmt.Printf("       %d distinct labels, %d already canonical, %d mapped by nearest match\n",
		len(distinct), exact, len(distinct)-exact)
	return p
}
