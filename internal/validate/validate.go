// Package validate performs end-to-end integrity checks over the unified
// dataset, the assembled panel, and the fitted model. It verifies schema
// conformance, re-derives every $/ton conversion, and checks the panel and
// fit invariants.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// Phase tracks pass/fail for one validation phase.
type Phase struct {
	Name   string
	Errors []string
}

func (p *Phase) errorf(format string, args ...any) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// Passed reports whether the phase found no errors.
func (p *Phase) Passed() bool { return len(p.Errors) == 0 }

// maxErrorsPerPhase caps error accumulation so a systemically broken input
// doesn't produce an unreadable report.
const maxErrorsPerPhase = 50

// Run executes every applicable phase. Panel and fit phases are skipped when
// their input is nil (validation can run right after combine, before
// estimation).
func Run(recs []stumpage.Record, p *panel.Panel, fit *ricardian.Fit) []*Phase {
	phases := []*Phase{
		checkUnifiedSchema(recs),
		checkConversions(recs),
	}
	if p != nil {
		phases = append(phases, checkPanel(p))
	}
	if fit != nil {
		phases = append(phases, checkFit(fit))
	}
	return phases
}

// AllPassed reports whether every phase passed.
func AllPassed(phases []*Phase) bool {
	for _, p := range phases {
		if !p.Passed() {
			return false
		}
	}
	return true
}

var validUnits = map[string]bool{
	"$/mbf": true, "$/cord": true, "$/ton": true, "index": true, "": true,
}

var validPeriods = map[stumpage.PeriodType]bool{
	stumpage.Annual: true, stumpage.Quarterly: true, stumpage.SemiAnnual: true,
}

func checkUnifiedSchema(recs []stumpage.Record) *Phase {
	p := &Phase{Name: "unified schema"}
	for i := range recs {
		if len(p.Errors) >= maxErrorsPerPhase {
			break
		}
		r := &recs[i]
		if r.Source == "" {
			p.errorf("record %d: empty source", i)
		}
		if r.Year < 1900 || r.Year > 2100 {
			p.errorf("record %s: year %d out of range", r.ID, r.Year)
		}
		if !validPeriods[r.Period] {
			p.errorf("record %s: unknown period type %q", r.ID, r.Period)
		}
		if r.Period == stumpage.Quarterly && (r.Quarter < 1 || r.Quarter > 4) {
			p.errorf("record %s: quarterly record with quarter %d", r.ID, r.Quarter)
		}
		if !validUnits[r.Unit] {
			p.errorf("record %s: unit %q not standardized", r.ID, r.Unit)
		}
		if want := r.GenerateID(); r.ID != want {
			p.errorf("record %s: ID does not match identifying fields (want %s)", r.ID, want)
		}
		if r.PriceLow != nil && r.PriceHigh != nil && *r.PriceLow > *r.PriceHigh {
			p.errorf("record %s: price_low %.2f above price_high %.2f", r.ID, *r.PriceLow, *r.PriceHigh)
		}
	}
	return p
}

// checkConversions re-derives every per-ton price from its stored factor and
// checks the factor itself against the published tables. Administered series
// (USFS) carry their own flat factor and are exempt from the table check.
func checkConversions(recs []stumpage.Record) *Phase {
	p := &Phase{Name: "unit conversions"}
	const tol = 0.01

	for i := range recs {
		if len(p.Errors) >= maxErrorsPerPhase {
			break
		}
		r := &recs[i]
		if r.PerTon == nil {
			continue
		}
		if r.Factor == nil || *r.Factor <= 0 {
			p.errorf("record %s: per-ton price without a positive conversion factor", r.ID)
			continue
		}
		if r.PriceAvg != nil {
			want := *r.PriceAvg / *r.Factor
			if math.Abs(want-*r.PerTon) > tol {
				p.errorf("record %s: price_per_ton %.2f does not re-derive (want %.2f)",
					r.ID, *r.PerTon, want)
			}
		}
		if strings.Contains(r.Notes, "Administered pricing") {
			continue
		}
		if want, ok := stumpage.ConversionFactor(r.Unit, r.Species); ok && math.Abs(want-*r.Factor) > tol {
			p.errorf("record %s: factor %.2f does not match table value %.2f for %s %s",
				r.ID, *r.Factor, want, r.Species, r.Unit)
		}
	}
	return p
}

func checkPanel(pn *panel.Panel) *Phase {
	p := &Phase{Name: "panel integrity"}
	for _, row := range pn.Rows() {
		if len(p.Errors) >= maxErrorsPerPhase {
			break
		}
		if !covariate.ValidFIPS(row.FIPS) {
			p.errorf("panel row %s: invalid FIPS", row.ID())
		}
		if row.Year < pn.StartYear || row.Year > pn.EndYear {
			p.errorf("panel row %s: year outside panel range", row.ID())
		}
		if row.RentPerAcre < 0 || math.IsNaN(row.RentPerAcre) {
			p.errorf("panel row %s: invalid rent %.2f", row.ID(), row.RentPerAcre)
		}
		if row.Source != panel.Observed && row.Source != panel.Model {
			p.errorf("panel row %s: unknown source %q", row.ID(), row.Source)
		}
		if row.Source == panel.Observed && row.PricePerTon <= 0 {
			p.errorf("panel row %s: observed row without a price", row.ID())
		}
	}
	return p
}

func checkFit(fit *ricardian.Fit) *Phase {
	p := &Phase{Name: "fit sanity"}
	if len(fit.Coef) != fit.K || len(fit.Names) != fit.K || len(fit.StdErr) != fit.K {
		p.errorf("coefficient vectors disagree with k=%d", fit.K)
		return p
	}
	for i, c := range fit.Coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			p.errorf("coefficient %s is not finite", fit.Names[i])
		}
		if fit.StdErr[i] < 0 || math.IsNaN(fit.StdErr[i]) {
			p.errorf("std err for %s is invalid", fit.Names[i])
		}
	}
	if fit.R2 < 0 || fit.R2 > 1 || math.IsNaN(fit.R2) {
		p.errorf("r2 %.4f outside [0,1]", fit.R2)
	}
	if fit.N < fit.K+10 {
		p.errorf("n=%d below the estimation floor for k=%d", fit.N, fit.K)
	}
	return p
}
