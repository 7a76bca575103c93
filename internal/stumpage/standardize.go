package stumpage

import "strings"

// StandardizeProduct maps a source's product label onto the unified product
// taxonomy. Unknown labels pass through lowercased so they stay visible in
// summaries rather than being silently dropped.
func StandardizeProduct(product string) string {
	p := strings.ToLower(strings.TrimSpace(product))
	if p == "" {
		return ""
	}

	// Sawtimber variants before the generic log checks.
	if containsAny(p, "sawtimber", "sawlog", "saw log", "sawlogs") {
		switch {
		case strings.Contains(p, "large"):
			return "sawtimber_large"
		case strings.Contains(p, "small"):
			return "sawtimber_small"
		}
		return "sawtimber"
	}

	// Generic logs and MBF-denominated products are sawtimber.
	if p == "log" || p == "logs" || p == "mbf" ||
		strings.Contains(p, "hardwood_sawlog") || strings.Contains(p, "softwood_sawlog") {
		return "sawtimber"
	}

	switch {
	case containsAny(p, "pulpwood", "pulp"):
		return "pulpwood"
	case strings.Contains(p, "chip") && strings.Contains(p, "saw"):
		return "chip-n-saw"
	case strings.Contains(p, "veneer"):
		return "veneer"
	case strings.Contains(p, "pole"):
		return "poles"
	case containsAny(p, "firewood", "fuelwood"):
		return "firewood"
	case strings.Contains(p, "fuelchip"):
		return "fuelchips"
	case strings.Contains(p, "fuel") && !strings.Contains(p, "chip"):
		return "firewood"
	case strings.Contains(p, "fiber"):
		return "fiber_fuel"
	case strings.Contains(p, "biomass"):
		return "biomass"
	case strings.Contains(p, "bolt"):
		return "boltwood"
	case strings.Contains(p, "stud"):
		return "studwood"
	case strings.Contains(p, "cordwood") || p == "cord":
		return "cordwood"
	case strings.Contains(p, "post"):
		return "posts"
	case containsAny(p, "crosstie", "tie"):
		return "crossties"
	case strings.Contains(p, "plylog"):
		return "plylogs"
	case containsAny(p, "t-wood", "topwood"):
		return "topwood"
	case strings.Contains(p, "stumpage"):
		// Stumpage without a qualifier is assumed to be sawtimber.
		return "sawtimber"
	case containsAny(p, "total", "index"):
		return "total_index"
	}

	return p
}

// StandardizeUnit normalizes unit labels to $/mbf, $/cord, $/ton, or index.
// Unrecognized units pass through lowercased.
func StandardizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return ""
	}

	switch {
	case strings.Contains(u, "mbf"), strings.Contains(u, "thousand board"):
		return "$/mbf"
	case strings.Contains(u, "cord"):
		return "$/cord"
	case strings.Contains(u, "ton"):
		return "$/ton"
	case strings.Contains(u, "index"):
		return "index"
	}

	return u
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
