// Package export writes the unified dataset and panel to files and,
// optionally, to a Kafka topic for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// WritePricesCSV writes the unified price dataset.
func WritePricesCSV(path string, recs []stumpage.Record) error {
	return writeCSV(path, pricesHeader, len(recs), func(i int) []string {
		return priceRow(recs[i])
	})
}

// WritePanelCSV writes the county-year panel.
func WritePanelCSV(path string, rows []panel.Row) error {
	return writeCSV(path, panelHeader, len(rows), func(i int) []string {
		return panelRow(rows[i])
	})
}

// WritePanelJSON writes the panel as a JSON array.
func WritePanelJSON(path string, rows []panel.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

var pricesHeader = []string{
	"id", "source", "year", "quarter", "period_type", "region", "county",
	"species", "product_type", "price_avg", "price_low", "price_high",
	"unit", "price_per_ton", "conversion_factor", "sample_size", "notes",
}

var panelHeader = []string{
	"fips", "year", "market", "rent_per_acre", "price_per_ton",
	"harvest_tons", "site_class", "mai_cuft", "tmean_c", "precip_mm",
	"land_value", "source", "vintage",
}

func priceRow(r stumpage.Record) []string {
	return []string{
		r.ID, r.Source, strconv.Itoa(r.Year), quarterCell(r.Quarter),
		string(r.Period), r.Region, r.County, r.Species, r.Product,
		floatCell(r.PriceAvg), floatCell(r.PriceLow), floatCell(r.PriceHigh),
		r.Unit, floatCell(r.PerTon), floatCell(r.Factor), intCell(r.SampleSize),
		r.Notes,
	}
}

func panelRow(r panel.Row) []string {
	return []string{
		r.FIPS, strconv.Itoa(r.Year), string(r.Market),
		formatFloat(r.RentPerAcre), formatFloat(r.PricePerTon),
		formatFloat(r.HarvestTons), formatFloat(r.SiteClass),
		formatFloat(r.MAI), formatFloat(r.TmeanC), formatFloat(r.PrecipMM),
		formatFloat(r.LandValue), string(r.Source),
		r.Vintage.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func writeCSV(path string, header []string, n int, row func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func quarterCell(q int) string {
	if q == 0 {
		return ""
	}
	return strconv.Itoa(q)
}
