package source

import (
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// The southern extension services (Timber Mart-South participants publish
// their own summaries too) share a common quarterly report shape: region,
// species, product, average price with an optional low/high range.
func loadQuarterlySouth(dataDir, state, agency, file, priceCol string, hasRange bool) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, agency, file))
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
		rec := stumpage.Record{
			Source:   state,
			Year:     year,
			Quarter:  quarter,
			Period:   stumpage.Quarterly,
			Region:   t.get(row, "region"),
			Species:  t.get(row, "species"),
			Product:  t.get(row, "product_type"),
			PriceAvg: t.getFloat(row, priceCol),
			Unit:     t.get(row, "unit"),
		}
		if hasRange {
			rec.PriceLow = t.getFloat(row, "price_low")
			rec.PriceHigh = t.getFloat(row, "price_high")
		}
		out = append(out, rec)
	}
	return out, nil
}

func loadArkansas(dataDir string) ([]stumpage.Record, error) {
	return loadQuarterlySouth(dataDir, "AR", "ar_extension", "ar_stumpage_parsed.csv", "price_avg", true)
}

func loadFlorida(dataDir string) ([]stumpage.Record, error) {
	return loadQuarterlySouth(dataDir, "FL", "fl_ifas", "fl_stumpage_parsed.csv", "price_avg", true)
}

// Louisiana publishes a single price column without a range.
func loadLouisiana(dataDir string) ([]stumpage.Record, error) {
	return loadQuarterlySouth(dataDir, "LA", "la_forestry", "la_stumpage_parsed.csv", "price", false)
}

func loadMississippi(dataDir string) ([]stumpage.Record, error) {
	return loadQuarterlySouth(dataDir, "MS", "ms_extension", "ms_stumpage_parsed.csv", "price_avg", true)
}

func loadSouthCarolina(dataDir string) ([]stumpage.Record, error) {
	return loadQuarterlySouth(dataDir, "SC", "sc_forestry", "sc_stumpage_parsed.csv", "price_avg", true)
}

// loadAlabama reads the Alabama Forestry Commission annual report.
func loadAlabama(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "al_forestry", "al_stumpage_parsed.csv"))
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
			Source:    "AL",
			Year:      year,
			Period:    stumpage.Annual,
			Region:    t.get(row, "region"),
			Species:   t.get(row, "species"),
			Product:   t.get(row, "product_type"),
			PriceAvg:  t.getFloat(row, "price_avg"),
			PriceLow:  t.getFloat(row, "price_low"),
			PriceHigh: t.getFloat(row, "price_high"),
			Unit:      t.get(row, "unit"),
		})
	}
	return out, nil
}

// loadGeorgia reads the Georgia Department of Revenue county timber values.
// Georgia is the only source with county resolution: the DOR publishes fair
// market values per county for property tax purposes, which makes it the
// anchor source for county-level rent estimation.
func loadGeorgia(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "ga_dor", "ga_stumpage_parsed.csv"))
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
			Source:   "GA",
			Year:     year,
			Period:   stumpage.Annual,
			Region:   "Statewide",
			County:   t.get(row, "county"),
			Species:  t.get(row, "species"),
			Product:  t.get(row, "product_type"),
			PriceAvg: t.getFloat(row, "price_avg"),
			Unit:     t.get(row, "unit"),
			Notes:    "County-level fair market values",
		})
	}
	return out, nil
}

// loadTexas reads the Texas A&M Forest Service annual report. The file
// carries both raw and normalized product labels; prefer the normalized one.
func loadTexas(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "texas_am", "tx_stumpage_parsed.csv"))
	if err != nil || t == nil {
		return nil, err
	}

	var out []stumpage.Record
	for _, row := range t.rows {
		year, ok := t.year(row)
		if !ok {
			continue
		}
		product := t.get(row, "product_type_normalized")
		if product == "" {
			product = t.get(row, "product_type")
		}
		out = append(out, stumpage.Record{
			Source:   "TX",
			Year:     year,
			Period:   stumpage.Annual,
			Region:   t.get(row, "region"),
			Species:  t.get(row, "species"),
			Product:  product,
			PriceAvg: t.getFloat(row, "price_avg"),
			Unit:     t.get(row, "unit"),
		})
	}
	return out, nil
}

// loadWestVirginia reads the WVU extension annual report.
func loadWestVirginia(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "wv_forestry", "wv_stumpage_parsed.csv"))
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
			Source:     "WV",
			Year:       year,
			Period:     stumpage.Annual,
			Region:     t.get(row, "region"),
			Species:    t.get(row, "species"),
			Product:    t.get(row, "product_type"),
			PriceAvg:   t.getFloat(row, "price_avg"),
			PriceLow:   t.getFloat(row, "price_low"),
			PriceHigh:  t.getFloat(row, "price_high"),
			Unit:       t.get(row, "unit"),
			SampleSize: t.getInt(row, "num_reports"),
		})
	}
	return out, nil
}
