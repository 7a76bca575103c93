package market

import "sort"

// USFSRegion describes a USFS administrative region for National Forest timber.
type USFSRegion struct {
	Number       int
	Name         string
	States       []string
	Headquarters string
	MajorForests []string
	Significance string // "high", "moderate", "low"
	Notes        string
}

// USFSRegions maps region number to definition. Region 7 was merged into
// Region 9 in 1965 and does not exist.
var USFSRegions = map[int]USFSRegion{
	1: {
		Number: 1, Name: "Northern Region",
		States:       []string{"MT", "ID", "ND", "SD"},
		Headquarters: "Missoula, MT",
		MajorForests: []string{"Flathead", "Lolo", "Nez Perce-Clearwater", "Idaho Panhandle"},
		Significance: "high",
		Notes:        "Significant timber program. Lodgepole, ponderosa, Douglas-fir.",
	},
	2: {
		Number: 2, Name: "Rocky Mountain Region",
		States:       []string{"CO", "WY", "SD", "NE", "KS"},
		Headquarters: "Lakewood, CO",
		MajorForests: []string{"White River", "Arapaho-Roosevelt", "Medicine Bow-Routt"},
		Significance: "moderate",
		Notes:        "Mixed use. Beetle salvage significant.",
	},
	3: {
		Number: 3, Name: "Southwestern Region",
		States:       []string{"AZ", "NM"},
		Headquarters: "Albuquerque, NM",
		MajorForests: []string{"Apache-Sitgreaves", "Gila", "Lincoln", "Coconino"},
		Significance: "low",
		Notes:        "Limited commercial timber. Fire/restoration focus.",
	},
	4: {
		Number: 4, Name: "Intermountain Region",
		States:       []string{"UT", "NV", "ID", "WY"},
		Headquarters: "Ogden, UT",
		MajorForests: []string{"Boise", "Sawtooth", "Salmon-Challis", "Bridger-Teton"},
		Significance: "moderate",
		Notes:        "Mixed conifer. Some significant timber in ID portions.",
	},
	5: {
		Number: 5, Name: "Pacific Southwest Region",
		States:       []string{"CA", "HI"},
		Headquarters: "Vallejo, CA",
		MajorForests: []string{"Six Rivers", "Shasta-Trinity", "Sierra", "Sequoia"},
		Significance: "high",
		Notes:        "Significant historical timber, reduced by spotted owl and fires.",
	},
	6: {
		Number: 6, Name: "Pacific Northwest Region",
		States:       []string{"OR", "WA"},
		Headquarters: "Portland, OR",
		MajorForests: []string{"Mt. Hood", "Willamette", "Deschutes", "Olympic", "Gifford Pinchot"},
		Significance: "high",
		Notes:        "Historically largest timber region. Reduced by NW Forest Plan.",
	},
	8: {
		Number: 8, Name: "Southern Region",
		States:       []string{"AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "OK", "SC", "TN", "TX", "VA", "PR", "VI"},
		Headquarters: "Atlanta, GA",
		MajorForests: []string{"Ouachita", "Ozark", "Francis Marion", "Nantahala", "Cherokee"},
		Significance: "moderate",
		Notes:        "Smaller NF footprint in private-dominated region.",
	},
	9: {
		Number: 9, Name: "Eastern Region",
		States:       []string{"IL", "IN", "IA", "ME", "MI", "MN", "MO", "NH", "NY", "OH", "PA", "VT", "WI", "WV"},
		Headquarters: "Milwaukee, WI",
		MajorForests: []string{"Allegheny", "Green Mountain", "White Mountain", "Chequamegon-Nicolet", "Chippewa"},
		Significance: "moderate",
		Notes:        "Fragmented NF lands. Northern hardwood, spruce-fir.",
	},
	10: {
		Number: 10, Name: "Alaska Region",
		States:       []string{"AK"},
		Headquarters: "Juneau, AK",
		MajorForests: []string{"Tongass", "Chugach"},
		Significance: "moderate",
		Notes:        "Tongass historically significant. Reduced by Roadless Rule.",
	},
}

// NFSignificantStates lists states where National Forest timber exceeds
// roughly 20% of total harvest.
var NFSignificantStates = []string{
	"MT", "ID", "OR", "WA", "CA",
	"AK",
	"CO", "AZ", "NM",
}

// USFSRegionsFor returns the region number(s) covering a state. Some states
// span multiple regions (ID spans R1 and R4).
func USFSRegionsFor(state string) []int {
	var regions []int
	for n, r := range USFSRegions {
		for _, s := range r.States {
			if s == state {
				regions = append(regions, n)
				break
			}
		}
	}
	sort.Ints(regions)
	return regions
}

// USFSRegionStates returns the member states of a region, or nil for an
// unknown region number.
func USFSRegionStates(number int) []string {
	r, ok := USFSRegions[number]
	if !ok {
		return nil
	}
	return r.States
}
