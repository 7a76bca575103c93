// Package report renders console summaries of the unified dataset, the
// panel, and the fitted model.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/forestecon/forest-rents/internal/harmonize"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}

// LoadingSummary renders the per-source load outcome.
func LoadingSummary(w io.Writer, stats []harmonize.SourceStat) {
	t := newTable(w, "Source Loading Summary")
	t.AppendHeader(table.Row{"Source", "State", "Status", "Records", "Years"})

	total := 0
	for _, s := range stats {
		years := ""
		if s.Records > 0 {
			years = fmt.Sprintf("%d-%d", s.FirstYear, s.LastYear)
		}
		t.AppendRow(table.Row{s.Name, s.State, s.Status(), humanize.Comma(int64(s.Records)), years})
		total += s.Records
	}
	t.AppendFooter(table.Row{"Total", "", "", humanize.Comma(int64(total)), ""})
	t.Render()
}

// RecordSummary renders record counts by state, product, and unit.
func RecordSummary(w io.Writer, recs []stumpage.Record) {
	byState := map[string]int{}
	byProduct := map[string]int{}
	byUnit := map[string]int{}
	for _, r := range recs {
		byState[r.Source]++
		byProduct[r.Product]++
		byUnit[r.Unit]++
	}

	countTable(w, "Records by State", "State", byState)
	countTable(w, "Records by Product", "Product", byProduct)
	countTable(w, "Records by Unit", "Unit", byUnit)
}

func countTable(w io.Writer, title, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	t := newTable(w, title)
	t.AppendHeader(table.Row{label, "Records"})
	for _, k := range keys {
		name := k
		if name == "" {
			name = "(blank)"
		}
		t.AppendRow(table.Row{name, humanize.Comma(int64(counts[k]))})
	}
	t.Render()
}

// PriceStats renders $/ton statistics per product over convertible records.
func PriceStats(w io.Writer, recs []stumpage.Record) {
	type agg struct {
		n        int
		sum      float64
		min, max float64
	}
	byProduct := map[string]*agg{}
	for _, r := range recs {
		if r.PerTon == nil {
			continue
		}
		a := byProduct[r.Product]
		if a == nil {
			a = &agg{min: math.Inf(1), max: math.Inf(-1)}
			byProduct[r.Product] = a
		}
		a.n++
		a.sum += *r.PerTon
		a.min = math.Min(a.min, *r.PerTon)
		a.max = math.Max(a.max, *r.PerTon)
	}

	products := make([]string, 0, len(byProduct))
	for p := range byProduct {
		products = append(products, p)
	}
	sort.Strings(products)

	t := newTable(w, "Price per Ton by Product")
	t.AppendHeader(table.Row{"Product", "N", "Mean $/ton", "Min", "Max"})
	for _, p := range products {
		a := byProduct[p]
		t.AppendRow(table.Row{
			p, humanize.Comma(int64(a.n)),
			fmt.Sprintf("%.2f", a.sum/float64(a.n)),
			fmt.Sprintf("%.2f", a.min),
			fmt.Sprintf("%.2f", a.max),
		})
	}
	t.Render()
}

// CoverageGaps renders, per quarterly source, the year-quarters with no
// records. Annual sources are covered by the loading summary's year range.
func CoverageGaps(w io.Writer, recs []stumpage.Record) {
	type span struct {
		first, last int
		seen        map[string]bool
	}
	sources := map[string]*span{}
	for _, r := range recs {
		if r.Period != stumpage.Quarterly || r.Quarter == 0 {
			continue
		}
		s := sources[r.Source]
		if s == nil {
			s = &span{first: r.Year, last: r.Year, seen: map[string]bool{}}
			sources[r.Source] = s
		}
		if r.Year < s.first {
			s.first = r.Year
		}
		if r.Year > s.last {
			s.last = r.Year
		}
		s.seen[fmt.Sprintf("%d-Q%d", r.Year, r.Quarter)] = true
	}

	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}
	sort.Strings(names)

	t := newTable(w, "Quarterly Coverage Gaps")
	t.AppendHeader(table.Row{"Source", "Span", "Missing Quarters"})
	for _, n := range names {
		s := sources[n]
		var missing []string
		for year := s.first; year <= s.last; year++ {
			for q := 1; q <= 4; q++ {
				key := fmt.Sprintf("%d-Q%d", year, q)
				if !s.seen[key] {
					missing = append(missing, key)
				}
			}
		}
		cell := "none"
		if len(missing) > 0 {
			const maxListed = 8
			if len(missing) > maxListed {
				cell = fmt.Sprintf("%s ... (%d total)",
					strings.Join(missing[:maxListed], ", "), len(missing))
			} else {
				cell = strings.Join(missing, ", ")
			}
		}
		t.AppendRow(table.Row{n, fmt.Sprintf("%d-%d", s.first, s.last), cell})
	}
	t.Render()
}

// PanelSummary renders panel coverage accounting.
func PanelSummary(w io.Writer, cov panel.Coverage) {
	t := newTable(w, "Panel Coverage")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Counties", humanize.Comma(int64(cov.Counties))})
	t.AppendRow(table.Row{"Years", cov.Years})
	t.AppendRow(table.Row{"Expected county-years", humanize.Comma(int64(cov.Expected))})
	t.AppendRow(table.Row{"Observed", humanize.Comma(int64(cov.Observed))})
	t.AppendRow(table.Row{"Modeled", humanize.Comma(int64(cov.Modeled))})
	if cov.Expected > 0 {
		pct := 100 * float64(cov.Observed+cov.Modeled) / float64(cov.Expected)
		t.AppendRow(table.Row{"Filled", fmt.Sprintf("%.1f%%", pct)})
	}
	t.Render()

	if len(cov.MissingByState) > 0 {
		countTable(w, "Missing County-Years by State", "State", cov.MissingByState)
	}
}

// RegressionTable renders the fitted model.
func RegressionTable(w io.Writer, fit *ricardian.Fit) {
	t := newTable(w, fmt.Sprintf("Ricardian Fit (base market: %s)", fit.BaseMarket))
	t.AppendHeader(table.Row{"Term", "Coef", "Std Err", "t"})
	for i, name := range fit.Names {
		t.AppendRow(table.Row{
			name,
			fmt.Sprintf("%.4g", fit.Coef[i]),
			fmt.Sprintf("%.4g", fit.StdErr[i]),
			fmt.Sprintf("%.2f", fit.TStat[i]),
		})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("n=%d k=%d", fit.N, fit.K),
		fmt.Sprintf("R2=%.3f", fit.R2),
		fmt.Sprintf("adj=%.3f", fit.AdjR2),
		fmt.Sprintf("RMSE=%.3f", fit.RMSE),
	})
	t.Render()
}
