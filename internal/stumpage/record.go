// Package stumpage models timber stumpage price observations from state and
// federal reporting programs.
//
// # Data Sources
//
// Each state forestry agency, extension service, or revenue department
// publishes stumpage prices on its own schedule (quarterly, semi-annual, or
// annual), for its own regional breakdown, in its own units ($/MBF, $/cord,
// $/ton), and with its own species and product taxonomy. Georgia's Department
// of Revenue publishes county-level fair market values; most other states
// report by multi-county region or statewide. The USFS PNW Research Station
// additionally publishes administered National Forest sale prices, which are
// appraised values rather than market prices.
//
// # Unit Conventions
//
//	1 ton  = 2,000 pounds (short ton)
//	1 cord = 128 cubic feet of stacked roundwood (4' x 4' x 8')
//	1 MBF  = 1,000 board feet (Doyle, Scribner, or International 1/4" rule)
//
// All prices are standardized to $/ton where a defensible conversion factor
// exists. Michigan DNR publishes bid price indices (base=100), which cannot be
// converted to actual prices and are carried with unit "index".
//
// # Record IDs
//
// Record IDs are deterministic SHA-256 hashes of the record's identifying
// fields. Re-running the annual batch over the same source vintage produces
// the same IDs, so downstream upserts are idempotent.
package stumpage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// PeriodType describes a source's reporting cadence.
type PeriodType string

const (
	Annual     PeriodType = "annual"
	Quarterly  PeriodType = "quarterly"
	SemiAnnual PeriodType = "semi-annual"
)

// Record is one stumpage price observation in the unified schema.
type Record struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"` // state code, or combined code like "MT_ID" for USFS regions
	Year       int        `json:"year"`
	Quarter    int        `json:"quarter,omitempty"` // 1-4, 0 for annual observations
	Period     PeriodType `json:"period_type"`
	Region     string     `json:"region"`
	County     string     `json:"county,omitempty"` // populated for county-resolution sources (GA)
	Species    string     `json:"species"`
	Product    string     `json:"product_type"`
	PriceAvg   *float64   `json:"price_avg,omitempty"`
	PriceLow   *float64   `json:"price_low,omitempty"`
	PriceHigh  *float64   `json:"price_high,omitempty"`
	Unit       string     `json:"unit"`
	PerTon     *float64   `json:"price_per_ton,omitempty"`
	Factor     *float64   `json:"conversion_factor,omitempty"`
	SampleSize *int       `json:"sample_size,omitempty"`
	Notes      string     `json:"notes,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// GenerateID produces a deterministic ID from the record's identifying fields.
// Identical source rows hash to identical IDs across batch re-runs, enabling
// idempotent INSERT OR REPLACE loads.
func (r *Record) GenerateID() string {
	input := fmt.Sprintf("%s|%d|%d|%s|%s|%s|%s",
		r.Source, r.Year, r.Quarter, r.Region, r.County, r.Species, r.Product)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if r.Source == "" {
		return short
	}
	return strings.ToLower(r.Source) + "-" + short
}

// Float returns a pointer to v, for optional price fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to n, for optional count fields.
func Int(n int) *int { return &n }
