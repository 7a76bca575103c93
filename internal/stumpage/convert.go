package stumpage

import "strings"

// Conversion factors for standardizing prices to $/ton, from published
// volume-to-weight tables:
//
//   - MSU Extension P2244, "Pine Timber Volume-to-Weight Conversions"
//   - MSU Extension P3448, "Hardwood Timber Volume-to-Weight Conversions"
//   - USFS GTR-SRS-251, "Timber Products Monitoring: Unit of Measure
//     Conversion Factors"
//
// Factors vary with species, diameter, moisture content, and season; the
// values here are the typical commercial-transaction averages. MBF factors
// assume 16-20" DBH timber; cord factors assume standard pulpwood specs.

// Factor describes a unit conversion factor with its provenance.
type Factor struct {
	TonsPerUnit  float64
	UnitFrom     string
	SpeciesGroup string
	Product      string
	Source       string
	Notes        string
}

// CordToTon holds tons-per-cord factors. price_per_ton = price_per_cord / factor.
var CordToTon = map[string]Factor{
	"pine_pulpwood": {
		TonsPerUnit: 2.67, UnitFrom: "cord", SpeciesGroup: "Pine", Product: "Pulpwood",
		Source: "MSU Extension P2244",
		Notes:  "Average of loblolly/shortleaf (2.6) and longleaf/slash (2.78)",
	},
	"pine_loblolly_shortleaf": {
		TonsPerUnit: 2.60, UnitFrom: "cord", SpeciesGroup: "Pine", Product: "Pulpwood",
		Source: "MSU Extension P2244",
	},
	"pine_longleaf_slash": {
		TonsPerUnit: 2.78, UnitFrom: "cord", SpeciesGroup: "Pine", Product: "Pulpwood",
		Source: "MSU Extension P2244",
		Notes:  "Higher specific gravity",
	},
	"hardwood_soft": {
		TonsPerUnit: 2.70, UnitFrom: "cord", SpeciesGroup: "Hardwood", Product: "Pulpwood",
		Source: "MSU Extension P3448; MS Code 75-27-39",
		Notes:  "Soft hardwoods: sweetgum, yellow poplar",
	},
	"hardwood_mixed": {
		TonsPerUnit: 2.80, UnitFrom: "cord", SpeciesGroup: "Hardwood", Product: "Pulpwood",
		Source: "MSU Extension P3448; MS Code 75-27-39",
	},
	"hardwood_hard": {
		TonsPerUnit: 2.90, UnitFrom: "cord", SpeciesGroup: "Hardwood", Product: "Pulpwood",
		Source: "MSU Extension P3448; MS Code 75-27-39",
		Notes:  "Hard hardwoods: oak, hickory",
	},
}

// MBFToTon holds tons-per-MBF factors. price_per_ton = price_per_mbf / factor.
var MBFToTon = map[string]Factor{
	"pine_sawtimber_10in": {TonsPerUnit: 14.0, UnitFrom: "mbf", SpeciesGroup: "Pine", Product: "Sawtimber", Source: "MSU Extension P2244"},
	"pine_sawtimber_14in": {TonsPerUnit: 8.5, UnitFrom: "mbf", SpeciesGroup: "Pine", Product: "Sawtimber", Source: "MSU Extension P2244"},
	"pine_sawtimber_18in": {TonsPerUnit: 7.2, UnitFrom: "mbf", SpeciesGroup: "Pine", Product: "Sawtimber", Source: "MSU Extension P2244"},
	"pine_sawtimber_24in": {TonsPerUnit: 5.9, UnitFrom: "mbf", SpeciesGroup: "Pine", Product: "Sawtimber", Source: "MSU Extension P2244"},
	"pine_sawtimber_avg": {
		TonsPerUnit: 7.0, UnitFrom: "mbf", SpeciesGroup: "Pine", Product: "Sawtimber",
		Source: "MSU Extension P2244",
		Notes:  "Typical pine sawtimber, 16-20 inch DBH",
	},
	"hardwood_sawtimber_14in": {TonsPerUnit: 12.1, UnitFrom: "mbf", SpeciesGroup: "Hardwood", Product: "Sawtimber", Source: "MSU Extension P3448"},
	"hardwood_sawtimber_18in": {TonsPerUnit: 9.8, UnitFrom: "mbf", SpeciesGroup: "Hardwood", Product: "Sawtimber", Source: "MSU Extension P3448"},
	"hardwood_sawtimber_24in": {TonsPerUnit: 8.1, UnitFrom: "mbf", SpeciesGroup: "Hardwood", Product: "Sawtimber", Source: "MSU Extension P3448"},
	"hardwood_sawtimber_avg": {
		TonsPerUnit: 8.5, UnitFrom: "mbf", SpeciesGroup: "Hardwood", Product: "Sawtimber",
		Source: "MSU Extension P3448",
		Notes:  "Mills typically use 8-9 tons/MBF for hardwood sawlogs",
	},
}

// CordFactor returns the tons-per-cord factor for a species label.
func CordFactor(species string) float64 {
	s := strings.ToLower(species)

	switch {
	case containsAny(s, "pine", "spruce", "fir", "hemlock", "cedar", "softwood"):
		return CordToTon["pine_pulpwood"].TonsPerUnit
	case containsAny(s, "oak", "hickory", "beech", "hard maple", "sugar maple", "walnut", "cherry"):
		return CordToTon["hardwood_hard"].TonsPerUnit
	case containsAny(s, "poplar", "tulip", "sweetgum", "basswood", "soft maple", "aspen", "cottonwood"):
		return CordToTon["hardwood_soft"].TonsPerUnit
	case containsAny(s, "hardwood", "mixed", "ash", "birch", "elm"):
		return CordToTon["hardwood_mixed"].TonsPerUnit
	}

	// Unknown species default to mixed hardwood, the middle value.
	return CordToTon["hardwood_mixed"].TonsPerUnit
}

// MBFFactor returns the tons-per-MBF factor for a species label.
func MBFFactor(species string) float64 {
	s := strings.ToLower(species)
	if containsAny(s, "pine", "spruce", "fir", "hemlock", "cedar", "softwood") {
		return MBFToTon["pine_sawtimber_avg"].TonsPerUnit
	}
	return MBFToTon["hardwood_sawtimber_avg"].TonsPerUnit
}

// ConversionFactor returns the tons-per-unit factor for a standardized unit,
// or false when no conversion exists ($/ton needs none and index values have
// no price interpretation).
func ConversionFactor(unit, species string) (float64, bool) {
	switch StandardizeUnit(unit) {
	case "$/ton":
		return 1.0, true
	case "$/cord":
		return CordFactor(species), true
	case "$/mbf":
		return MBFFactor(species), true
	}
	return 0, false
}

// PerTon converts a price in the given unit to $/ton. Returns false for
// index units, unrecognized units, or a missing or non-positive price. A
// zero price is a reporting artifact, not a market observation.
func PerTon(price *float64, unit, species string) (float64, bool) {
	if price == nil || *price <= 0 {
		return 0, false
	}
	std := StandardizeUnit(unit)
	if std == "$/ton" {
		return *price, true
	}
	factor, ok := ConversionFactor(std, species)
	if !ok || factor == 0 {
		return 0, false
	}
	return *price / factor, true
}
