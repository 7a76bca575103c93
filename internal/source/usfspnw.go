package source

import (
	"math"
	"strings"

	"github.com/forestecon/forest-rents/internal/stumpage"
)

// The USFS PNW Research Station publishes historical stumpage prices from
// National Forest timber sales. This is administered pricing (appraised sale
// values), not market prices, and it covers the western states where no state
// agency publishes a market report.

// usfsMBFToTons converts the PNW sawtimber series. Softwood sawtimber runs
// 3.5-4.5 tons/MBF depending on species; 4.0 is the series average.
const usfsMBFToTons = 4.0

// usfsSubregionState maps the PNW station's region and subregion labels onto
// state codes. Multi-state series keep a combined code; the panel stage
// splits those across member states.
var usfsSubregionState = map[string]string{
	"Montana":    "MT",
	"Idaho":      "ID",
	"Washington": "WA",
	"Oregon":     "OR",
	"California": "CA",
	"Alaska":     "AK",

	"Montana_Idaho":     "MT_ID",
	"Washington_Oregon": "WA_OR",

	"Northern_Region_MT_ID":   "MT_ID",
	"Intermountain_Region":    "ID", // R4 series covers primarily the Idaho forests
	"Pacific_Northwest_WA_OR": "WA_OR",
	"Pacific_Southwest_CA":    "CA",
}

// usfsSpecies standardizes the station's species labels.
var usfsSpecies = map[string]string{
	"Douglas-fir":        "douglas_fir",
	"Ponderosa pine":     "ponderosa_pine",
	"Western white pine": "white_pine",
	"Lodgepole pine":     "lodgepole_pine",
	"Engelmann spruce":   "engelmann_spruce",
	"Western hemlock":    "western_hemlock",
	"Cedars":             "cedar",
	"Larch":              "western_larch",
	"True firs":          "true_fir",
	"All species":        "all_species",
	"Western redcedar":   "western_redcedar",
	"Sitka spruce":       "sitka_spruce",
	"Red alder":          "red_alder",
	"Other hardwoods":    "hardwood_other",
	"Other softwoods":    "softwood_other",
}

func usfsState(subregion, region string) string {
	if s, ok := usfsSubregionState[subregion]; ok {
		return s
	}
	if s, ok := usfsSubregionState[region]; ok {
		return s
	}
	return strings.ReplaceAll(region, "_", "-")
}

func usfsSpeciesName(raw string) string {
	if s, ok := usfsSpecies[raw]; ok {
		return s
	}
	return strings.ReplaceAll(strings.ToLower(raw), " ", "_")
}

func usfsNotes(table string) string {
	n := "USFS PNW National Forest stumpage."
	if table != "" {
		n += " " + table + "."
	}
	return n + " Administered pricing, not market."
}

// loadUSFSPNW reads both PNW files: regional averages from the combined file
// and per-species series from the species file. Where both cover the same
// source/year/species/region, the species row wins.
func loadUSFSPNW(dataDir string) ([]stumpage.Record, error) {
	var out []stumpage.Record

	combined, err := readTable(sourcePath(dataDir, "usfs_pnw", "usfs_pnw_stumpage_combined.csv"))
	if err != nil {
		return nil, err
	}
	if combined != nil {
		for _, row := range combined.rows {
			year, ok := combined.year(row)
			if !ok {
				continue
			}
			price := combined.getFloat(row, "price_per_mbf")
			if price == nil {
				continue
			}
			region := combined.get(row, "region")
			subregion := combined.get(row, "subregion")
			if subregion == "" {
				subregion = region
			}
			recRegion := subregion
			if subregion == region {
				recRegion = "Statewide"
			}
			out = append(out, stumpage.Record{
				Source:   usfsState(subregion, region),
				Year:     year,
				Period:   stumpage.Annual,
				Region:   recRegion,
				Species:  "all_species",
				Product:  "sawtimber",
				PriceAvg: price,
				Unit:     "$/MBF",
				PerTon:   stumpage.Float(round2(*price / usfsMBFToTons)),
				Factor:   stumpage.Float(usfsMBFToTons),
				Notes:    usfsNotes(combined.get(row, "table")),
			})
		}
	}

	species, err := readTable(sourcePath(dataDir, "usfs_pnw", "usfs_pnw_species_stumpage.csv"))
	if err != nil {
		return nil, err
	}
	if species != nil {
		for _, row := range species.rows {
			year, ok := species.year(row)
			if !ok {
				continue
			}
			price := species.getFloat(row, "price_per_mbf")
			if price == nil {
				continue
			}
			region := species.get(row, "region")
			out = append(out, stumpage.Record{
				Source:   usfsState(region, region),
				Year:     year,
				Period:   stumpage.Annual,
				Region:   strings.ReplaceAll(region, "_", " "),
				Species:  usfsSpeciesName(species.get(row, "species")),
				Product:  "sawtimber",
				PriceAvg: price,
				Unit:     "$/MBF",
				PerTon:   stumpage.Float(round2(*price / usfsMBFToTons)),
				Factor:   stumpage.Float(usfsMBFToTons),
				Notes:    usfsNotes(species.get(row, "table")),
			})
		}
	}

	return dedupeUSFS(out), nil
}

// dedupeUSFS drops combined-file rows shadowed by a species-file row for the
// same source/year/species/region; the later (species) row is kept.
func dedupeUSFS(recs []stumpage.Record) []stumpage.Record {
	type key struct {
		source, species, region string
		year                    int
	}
	last := make(map[key]int, len(recs))
	for i, r := range recs {
		last[key{r.Source, r.Species, r.Region, r.Year}] = i
	}
	out := recs[:0]
	for i, r := range recs {
		if last[key{r.Source, r.Species, r.Region, r.Year}] == i {
			out = append(out, r)
		}
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
