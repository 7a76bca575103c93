package source

import (
	"strings"

	"github.com/forestecon/forest-rents/internal/stumpage"
)

// seasonQuarter maps the NY DEC season labels onto quarters for ordering.
// NY publishes twice a year (winter and summer editions).
var seasonQuarter = map[string]int{
	"winter": 1,
	"spring": 2,
	"summer": 3,
	"fall":   4,
}

// loadNewYork reads the NY DEC semi-annual stumpage price report. Prices are
// medians over reported sales; the log rule varies by region and is kept in
// the notes.
func loadNewYork(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "ny_dec", "ny_stumpage_parsed.csv"))
	if err != nil || t == nil {
		return nil, err
	}

	var out []stumpage.Record
	for _, row := range t.rows {
		year, ok := t.year(row)
		if !ok {
			continue
		}
		notes := ""
		if lr := t.get(row, "log_rule"); lr != "" {
			notes = "Log rule: " + lr
		}
		out = append(out, stumpage.Record{
			Source:    "NY",
			Year:      year,
			Quarter:   seasonQuarter[strings.ToLower(t.get(row, "season"))],
			Period:    stumpage.SemiAnnual,
			Region:    t.get(row, "region"),
			Species:   t.get(row, "species"),
			Product:   t.get(row, "product_type"),
			PriceAvg:  t.getFloat(row, "price_median"),
			PriceLow:  t.getFloat(row, "price_low"),
			PriceHigh: t.getFloat(row, "price_high"),
			Unit:      t.get(row, "unit"),
			Notes:     notes,
		})
	}
	return out, nil
}

// loadPennsylvania reads the Penn State extension quarterly Timber Market
// Report.
func loadPennsylvania(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "pa_extension", "pa_stumpage_parsed.csv"))
	if err != nil || t == nil {
		return nil, err
	}

	var out []stumpage.Record
	for _, row := range t.rows {
		year, ok := t.year(row)
		if !ok {
			continue
		}
		q := t.getInt(row, "quarter")
		quarter := 0
		if q != nil {
			quarter = *q
		}
		out = append(out, stumpage.Record{
			Source:     "PA",
			Year:       year,
			Quarter:    quarter,
			Period:     stumpage.Quarterly,
			Region:     t.get(row, "region"),
			Species:    t.get(row, "species"),
			Product:    t.get(row, "product_type"),
			PriceAvg:   t.getFloat(row, "price_avg"),
			PriceLow:   t.getFloat(row, "price_low"),
			PriceHigh:  t.getFloat(row, "price_high"),
			Unit:       t.get(row, "unit"),
			SampleSize: t.getInt(row, "sample_size"),
		})
	}
	return out, nil
}

// loadVermont reads the VT FPR quarterly stumpage report.
func loadVermont(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "vt_fpr", "vt_stumpage_parsed.csv"))
	if err != nil || t == nil {
		return nil, err
	}

	var out []stumpage.Record
	for _, row := range t.rows {
		year, ok := t.year(row)
		if !ok {
			continue
		}
		q := t.getInt(row, "quarter")
		quarter := 0
		if q != nil {
			quarter = *q
		}
		out = append(out, stumpage.Record{
			Source:     "VT",
			Year:       year,
			Quarter:    quarter,
			Period:     stumpage.Quarterly,
			Region:     t.get(row, "region"),
			Species:    t.get(row, "species"),
			Product:    t.get(row, "product_type"),
			PriceAvg:   t.getFloat(row, "price"),
			Unit:       t.get(row, "unit"),
			SampleSize: t.getInt(row, "sample_size"),
		})
	}
	return out, nil
}

// loadMaine reads the Maine Forest Service annual stumpage report, published
// with min/max ranges and report counts by county grouping.
func loadMaine(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "me_forest_service", "me_stumpage_parsed.csv"))
	if err != nil || t == nil {
		return nil, err
	}

	var out []stumpage.Record
	for _, row := range t.rows {
		year, ok := t.year(row)
		if !ok {
			continue
		}
		out = append(out, stumpage.Record{
			Source:     "ME",
			Year:       year,
			Period:     stumpage.Annual,
			Region:     t.get(row, "region"),
			Species:    t.get(row, "species"),
			Product:    t.get(row, "product_type"),
			PriceAvg:   t.getFloat(row, "price_avg"),
			PriceLow:   t.getFloat(row, "price_min"),
			PriceHigh:  t.getFloat(row, "price_max"),
			Unit:       t.get(row, "unit"),
			SampleSize: t.getInt(row, "num_reports"),
		})
	}
	return out, nil
}
