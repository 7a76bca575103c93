// Package harmonize combines every source's records into the unified
// stumpage dataset: standardized product and unit labels, $/ton conversions
// where a factor exists, and deterministic record IDs.
package harmonize

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/forestecon/forest-rents/internal/observability"
	"github.com/forestecon/forest-rents/internal/source"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// SourceStat summarizes one loader's contribution to a run.
type SourceStat struct {
	Name      string
	State     string
	Records   int
	FirstYear int
	LastYear  int
	Err       error
}

// Status renders the stat for summary tables.
func (s SourceStat) Status() string {
	switch {
	case s.Err != nil:
		return "error"
	case s.Records == 0:
		return "no data"
	default:
		return "ok"
	}
}

// Result is the combined dataset plus per-source accounting.
type Result struct {
	Records []stumpage.Record
	Stats   []SourceStat
}

// Harmonizer runs every registered loader and unifies the output.
type Harmonizer struct {
	loaders []source.Loader
	logger  *slog.Logger
	metrics *observability.Metrics
}

func New(logger *slog.Logger, metrics *observability.Metrics) *Harmonizer {
	return &Harmonizer{
		loaders: source.All(),
		logger:  logger,
		metrics: metrics,
	}
}

// Run loads all sources under dataDir and returns the unified dataset. A
// failing loader is logged and counted but does not fail the run; the
// remaining sources still produce a usable dataset.
func (h *Harmonizer) Run(ctx context.Context, dataDir string) (*Result, error) {
	start := time.Now()
	res := &Result{}

	for _, l := range h.loaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		recs, err := l.Load(dataDir)
		stat := SourceStat{Name: l.Name, State: l.State, Err: err}
		if err != nil {
			h.logger.Error("source load failed", "source", l.Name, "error", err)
			h.metrics.LoaderErrors.WithLabelValues(l.State).Inc()
			res.Stats = append(res.Stats, stat)
			continue
		}

		for i := range recs {
			h.unify(&recs[i])
		}

		stat.Records = len(recs)
		for _, r := range recs {
			if stat.FirstYear == 0 || r.Year < stat.FirstYear {
				stat.FirstYear = r.Year
			}
			if r.Year > stat.LastYear {
				stat.LastYear = r.Year
			}
		}
		res.Stats = append(res.Stats, stat)
		res.Records = append(res.Records, recs...)

		h.metrics.RecordsLoaded.WithLabelValues(l.State).Add(float64(len(recs)))
		h.logger.Info("source loaded", "source", l.Name, "records", len(recs))
	}

	sortRecords(res.Records)
	h.metrics.StageDuration.WithLabelValues("harmonize").Observe(time.Since(start).Seconds())
	h.logger.Info("harmonize complete",
		"sources", len(res.Stats), "records", len(res.Records),
		"elapsed", time.Since(start))

	return res, nil
}

// unify standardizes one record in place: product and unit labels, the $/ton
// conversion, the record ID, and the processing timestamp.
func (h *Harmonizer) unify(r *stumpage.Record) {
	r.Product = stumpage.StandardizeProduct(r.Product)
	r.Unit = stumpage.StandardizeUnit(r.Unit)

	// Sources like USFS PNW arrive pre-converted; leave those alone. Zero
	// prices are reporting artifacts and never produce a per-ton value.
	if r.PerTon == nil && r.PriceAvg != nil && *r.PriceAvg > 0 {
		if perTon, ok := stumpage.PerTon(r.PriceAvg, r.Unit, r.Species); ok {
			factor, _ := stumpage.ConversionFactor(r.Unit, r.Species)
			r.PerTon = stumpage.Float(perTon)
			r.Factor = stumpage.Float(factor)
			h.metrics.RecordsConverted.Inc()
		} else if r.Unit != "index" {
			// Index series are expected not to convert; anything else
			// with a price but no factor is a conversion gap.
			h.metrics.ConversionFailures.Inc()
		}
	}

	r.ID = r.GenerateID()
	r.ProcessedAt = stumpage.Now()
}

// sortRecords orders the unified dataset by source, then time, then the
// remaining identifying fields, so output files are stable across runs.
func sortRecords(recs []stumpage.Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Quarter != b.Quarter {
			return a.Quarter < b.Quarter
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Species != b.Species {
			return a.Species < b.Species
		}
		return a.Product < b.Product
	})
}
