package source

import (
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// loadMichigan reads the Michigan DNR quarterly bid index file. Michigan
// publishes price indices (base=100) rather than dollar prices, so these
// records carry unit "index" and never convert to $/ton.
func loadMichigan(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "mi_dnr", "mi_stumpage_parsed.csv"))
	if err != nil || t == nil {
		return nil, err
	}

	var out []stumpage.Record
	for _, row := range t.rows {
		year, ok := t.year(row)
		if !ok {
			continue
		}
		product := "total_index"
		switch t.get(row, "product") {
		case "SAW":
			product = "sawtimber"
		case "PULP":
			product = "pulpwood"
		}
		q := t.getInt(row, "quarter")
		quarter := 0
		if q != nil {
			quarter = *q
		}
		out = append(out, stumpage.Record{
			Source:     "MI",
			Year:       year,
			Quarter:    quarter,
			Period:     stumpage.Quarterly,
			Region:     t.get(row, "market_area"),
			Species:    t.get(row, "species_group"),
			Product:    product,
			PriceAvg:   t.getFloat(row, "avg_bid_index"),
			Unit:       "index",
			SampleSize: t.getInt(row, "volume"),
			Notes:      "Price index (base=100), not actual price",
		})
	}
	return out, nil
}

// loadMinnesota reads the Minnesota DNR annual statewide stumpage report.
func loadMinnesota(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "mn_dnr", "mn_stumpage_parsed.csv"))
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
			Source:   "MN",
			Year:     year,
			Period:   stumpage.Annual,
			Region:   "Statewide",
			Species:  t.get(row, "species"),
			Product:  t.get(row, "product_type"),
			PriceAvg: t.getFloat(row, "price"),
			Unit:     t.get(row, "unit"),
		})
	}
	return out, nil
}

// loadWisconsin reads the Wisconsin DNR annual zone-level report. Prices are
// published per cord; the zone number identifies a multi-county price zone.
func loadWisconsin(dataDir string) ([]stumpage.Record, error) {
	t, err := readTable(sourcePath(dataDir, "wi_dnr", "wi_stumpage_parsed.csv"))
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
		if p := t.get(row, "program"); p != "" {
			notes = "Program: " + p
		}
		// Zone numbers get a "Zone" prefix; named areas pass through as is.
		region := t.get(row, "zone")
		if isDigits(region) {
			region = "Zone " + region
		}
		out = append(out, stumpage.Record{
			Source:   "WI",
			Year:     year,
			Period:   stumpage.Annual,
			Region:   region,
			Species:  t.get(row, "species"),
			Product:  t.get(row, "product_type"),
			PriceAvg: t.getFloat(row, "price"),
			Unit:     "$/cord",
			Notes:    notes,
		})
	}
	return out, nil
}
