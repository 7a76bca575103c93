// Package market defines US timber market regions.
//
// Markets are organized by forest type, not just geography. The same state may
// participate in several distinct markets based on the species and products
// present: Maine's spruce-fir pulpwood market is separate from the Lake States
// hardwood market, and Michigan's Upper Peninsula sells into both northern
// hardwood sawtimber and aspen pulpwood markets.
//
// National Forest System timber is tracked separately. It is not a true market
// but an administered pricing system with appraised values and policy
// constraints, significant in the West where most timberland is publicly owned.
//
// References: USFS FIA forest type groups, TimberMart-South product
// categories, Forisk wood basket analysis, USFS Cut & Sold reports.
package market

import "sort"

// TimberMarket identifies a major timber market defined by forest type and
// primary products.
type TimberMarket string

const (
	// Softwood markets.
	SouthernPine TimberMarket = "southern_pine" // loblolly/slash/longleaf, SE US, short rotation
	DouglasFir   TimberMarket = "douglas_fir"   // PNW west of Cascades, premium sawtimber and veneer
	WesternPine  TimberMarket = "western_pine"  // ponderosa/lodgepole, PNW east side and Northern Rockies
	SpruceFir    TimberMarket = "spruce_fir"    // ME and northern NH/VT, Upper Great Lakes, pulpwood dominant

	// Hardwood markets.
	AppalachianHardwood TimberMarket = "appalachian_hardwood" // oak/cherry/walnut/poplar, highest-value hardwoods
	NorthernHardwood    TimberMarket = "northern_hardwood"    // maple/beech/birch, Lake States and Northeast uplands
	OakHickory          TimberMarket = "oak_hickory"          // central hardwoods: MO, IN, southern IL/OH

	// Pulpwood-specific.
	AspenPulp TimberMarket = "aspen_pulp" // Lake States aspen/paper birch for OSB and paper

	// NationalForest is administered public timber, not a true market.
	// Prices reflect appraised stumpage, road credits, and stewardship
	// contracts; supply is policy-constrained rather than market-responsive.
	NationalForest TimberMarket = "national_forest"
)

// Product is a primary product type in a timber market.
type Product string

const (
	Sawtimber Product = "sawtimber"
	Pulpwood  Product = "pulpwood"
	ChipNSaw  Product = "chip_n_saw"
	Veneer    Product = "veneer"
	Poles     Product = "poles"
)

// Zone is a geographic sub-market within a forest-type market.
type Zone string

const (
	SouthAtlanticCoastal  Zone = "south_atlantic_coastal"
	SouthAtlanticPiedmont Zone = "south_atlantic_piedmont"
	GulfCoastal           Zone = "gulf_coastal"
	GulfInterior          Zone = "gulf_interior"
	PNWCoast              Zone = "pnw_coast"
	PacSWCoast            Zone = "pac_sw_coast"
	InlandNorthwest       Zone = "inland_northwest"
	NorthernRockies       Zone = "northern_rockies"
	NorthernNewEngland    Zone = "northern_new_england"
	UpperGreatLakes       Zone = "upper_great_lakes"
	CentralAppalachian    Zone = "central_appalachian"
	NorthernAppalachian   Zone = "northern_appalachian"
	LakeStatesHardwood    Zone = "lake_states_hardwood"
	NortheastHardwood     Zone = "northeast_hardwood"
	OzarkOuachita         Zone = "ozark_ouachita"
	CentralHardwood       Zone = "central_hardwood"
	LakeStatesAspen       Zone = "lake_states_aspen"
)

// Definition describes a timber market's characteristics.
type Definition struct {
	Market          TimberMarket
	PrimarySpecies  []string
	PrimaryProducts []Product
	RotationYears   int // 0 for policy-driven National Forest timber
	Zones           []Zone
	States          []string
	PrivatePct      int // private ownership share of timberland, percent
	Notes           string
}

// Definitions holds the complete market definitions table.
var Definitions = map[TimberMarket]Definition{
	SouthernPine: {
		Market:          SouthernPine,
		PrimarySpecies:  []string{"loblolly_pine", "slash_pine", "longleaf_pine", "shortleaf_pine"},
		PrimaryProducts: []Product{Sawtimber, Pulpwood, ChipNSaw},
		RotationYears:   28,
		Zones:           []Zone{SouthAtlanticCoastal, SouthAtlanticPiedmont, GulfCoastal, GulfInterior},
		States:          []string{"AL", "AR", "FL", "GA", "LA", "MS", "NC", "SC", "TX", "VA"},
		PrivatePct:      90,
		Notes:           "61% of US timber removals. TimberMart-South coverage. World's wood basket.",
	},
	DouglasFir: {
		Market:          DouglasFir,
		PrimarySpecies:  []string{"douglas_fir", "western_hemlock", "western_red_cedar", "sitka_spruce"},
		PrimaryProducts: []Product{Sawtimber, Veneer, Pulpwood},
		RotationYears:   45,
		Zones:           []Zone{PNWCoast, PacSWCoast},
		States:          []string{"OR", "WA", "CA"},
		PrivatePct:      40,
		Notes:           "Highest productivity in North America. Strong export to Asia.",
	},
	WesternPine: {
		Market:          WesternPine,
		PrimarySpecies:  []string{"ponderosa_pine", "lodgepole_pine", "western_larch"},
		PrimaryProducts: []Product{Sawtimber},
		RotationYears:   80,
		Zones:           []Zone{InlandNorthwest, NorthernRockies},
		States:          []string{"OR", "WA", "ID", "MT"},
		PrivatePct:      30,
		Notes:           "East of Cascades. National Forest dominant. Fire-adapted management.",
	},
	SpruceFir: {
		Market:          SpruceFir,
		PrimarySpecies:  []string{"red_spruce", "white_spruce", "balsam_fir", "black_spruce"},
		PrimaryProducts: []Product{Pulpwood, Sawtimber},
		RotationYears:   60,
		Zones:           []Zone{NorthernNewEngland, UpperGreatLakes},
		States:          []string{"ME", "NH", "VT", "MI", "MN", "WI"},
		PrivatePct:      75,
		Notes:           "Pulpwood focus. Distinct from hardwood markets in same geography.",
	},
	AppalachianHardwood: {
		Market:          AppalachianHardwood,
		PrimarySpecies:  []string{"white_oak", "red_oak", "black_cherry", "black_walnut", "yellow_poplar", "sugar_maple"},
		PrimaryProducts: []Product{Sawtimber, Veneer},
		RotationYears:   80,
		Zones:           []Zone{CentralAppalachian, NorthernAppalachian},
		States:          []string{"WV", "VA", "KY", "TN", "PA", "NY", "OH", "MD"},
		PrivatePct:      85,
		Notes:           "Premium hardwoods. Export market. Highest $/MBF.",
	},
	NorthernHardwood: {
		Market:          NorthernHardwood,
		PrimarySpecies:  []string{"sugar_maple", "red_maple", "american_beech", "yellow_birch", "white_ash"},
		PrimaryProducts: []Product{Sawtimber, Veneer, Pulpwood},
		RotationYears:   70,
		Zones:           []Zone{LakeStatesHardwood, NortheastHardwood},
		States:          []string{"MI", "MN", "WI", "NY", "VT", "NH", "ME", "PA"},
		PrivatePct:      80,
		Notes:           "Furniture, flooring. Distinct from spruce-fir pulp.",
	},
	OakHickory: {
		Market:          OakHickory,
		PrimarySpecies:  []string{"white_oak", "red_oak", "shagbark_hickory", "black_walnut"},
		PrimaryProducts: []Product{Sawtimber, Veneer},
		RotationYears:   75,
		Zones:           []Zone{OzarkOuachita, CentralHardwood},
		States:          []string{"MO", "AR", "IN", "OH", "IL", "OK", "KS"},
		PrivatePct:      85,
		Notes:           "Bourbon barrel staves (white oak). Flooring.",
	},
	AspenPulp: {
		Market:          AspenPulp,
		PrimarySpecies:  []string{"quaking_aspen", "bigtooth_aspen", "paper_birch"},
		PrimaryProducts: []Product{Pulpwood},
		RotationYears:   40,
		Zones:           []Zone{LakeStatesAspen},
		States:          []string{"MN", "WI", "MI"},
		PrivatePct:      65,
		Notes:           "OSB, paper, packaging. Short rotation.",
	},
	NationalForest: {
		Market:          NationalForest,
		PrimarySpecies:  []string{"all_species"},
		PrimaryProducts: []Product{Sawtimber, Pulpwood},
		RotationYears:   0,
		States: []string{
			"MT", "ID",
			"CO", "WY", "SD", "NE",
			"AZ", "NM",
			"UT", "NV",
			"CA",
			"OR", "WA",
			"AL", "AR", "FL", "GA", "KY", "LA", "MS", "NC", "OK", "SC", "TN", "TX", "VA",
			"IL", "IN", "ME", "MI", "MN", "MO", "NH", "NY", "OH", "PA", "VT", "WI", "WV",
			"AK",
		},
		PrivatePct: 0,
		Notes:      "Administered pricing via timber sale appraisal, not a true market.",
	},
}

// Participation maps a state to the timber markets it participates in.
type Participation struct {
	State           string
	Primary         TimberMarket
	Secondary       []TimberMarket
	TMSRegions      []string // TimberMart-South codes (South only)
	IntrastateZones []string
	Notes           string
}

// StateParticipation maps each timber state to its markets. A state commonly
// participates in multiple markets based on the forest types present.
var StateParticipation = map[string]Participation{
	// Southern pine states.
	"GA": {State: "GA", Primary: SouthernPine, Secondary: []TimberMarket{AppalachianHardwood},
		TMSRegions: []string{"GA1", "GA2"}, IntrastateZones: []string{"Coastal Plain", "Piedmont", "Mountains"},
		Notes: "GA1=South pine, GA2=North. County-level data available."},
	"AL": {State: "AL", Primary: SouthernPine, Secondary: []TimberMarket{AppalachianHardwood},
		TMSRegions: []string{"AL1", "AL2"}, IntrastateZones: []string{"North", "South"},
		Notes: "AL1=North (hardwood mix), AL2=South (pine dominant)"},
	"MS": {State: "MS", Primary: SouthernPine, Secondary: []TimberMarket{OakHickory},
		TMSRegions: []string{"MS1", "MS2"}, IntrastateZones: []string{"Delta/North", "Piney Woods/South"},
		Notes: "MS2 Piney Woods is core pine market"},
	"LA": {State: "LA", Primary: SouthernPine,
		TMSRegions: []string{"LA1", "LA2"}, IntrastateZones: []string{"North", "South"},
		Notes: "LA1=North pine core, LA2=South coastal/cypress"},
	"TX": {State: "TX", Primary: SouthernPine, Secondary: []TimberMarket{OakHickory},
		TMSRegions: []string{"TX1", "TX2"}, IntrastateZones: []string{"Northeast TX", "Southeast TX"},
		Notes: "East Texas only. TX2 Southeast is pine core."},
	"AR": {State: "AR", Primary: SouthernPine, Secondary: []TimberMarket{OakHickory},
		TMSRegions: []string{"AR1", "AR2"}, IntrastateZones: []string{"Ozarks/North", "Gulf Coastal Plain/South"},
		Notes: "AR1=Ozark hardwood, AR2=Gulf Coastal pine"},
	"NC": {State: "NC", Primary: SouthernPine, Secondary: []TimberMarket{AppalachianHardwood},
		TMSRegions: []string{"NC1", "NC2"}, IntrastateZones: []string{"Mountains", "Piedmont", "Coastal Plain"},
		Notes: "NC1=Mountains (hardwood), NC2=Coastal Plain (pine)"},
	"SC": {State: "SC", Primary: SouthernPine, Secondary: []TimberMarket{AppalachianHardwood},
		TMSRegions: []string{"SC1", "SC2"}, IntrastateZones: []string{"Lowcountry", "Upstate"},
		Notes: "SC2=Lowcountry pine core"},
	"FL": {State: "FL", Primary: SouthernPine,
		TMSRegions: []string{"FL1", "FL2"}, IntrastateZones: []string{"Panhandle", "Peninsula"},
		Notes: "FL1=Panhandle (more productive), FL2=Peninsula"},
	"VA": {State: "VA", Primary: SouthernPine, Secondary: []TimberMarket{AppalachianHardwood},
		TMSRegions: []string{"VA1", "VA2"}, IntrastateZones: []string{"Mountains", "Piedmont", "Coastal"},
		Notes: "VA1=Mountains (Appalachian market), VA2=Piedmont/Coastal (pine)"},

	// Appalachian and oak-hickory hardwood states.
	"WV": {State: "WV", Primary: AppalachianHardwood,
		IntrastateZones: []string{"Region 1", "Region 2", "Region 3", "Region 4", "Region 5"},
		Notes:           "Premium Appalachian hardwoods. 5 forestry regions."},
	"KY": {State: "KY", Primary: AppalachianHardwood, Secondary: []TimberMarket{OakHickory},
		IntrastateZones: []string{"Eastern", "Western"},
		Notes:           "Split between Appalachian (east) and Central Hardwood (west)"},
	"TN": {State: "TN", Primary: AppalachianHardwood, Secondary: []TimberMarket{OakHickory, SouthernPine},
		TMSRegions: []string{"TN1", "TN2"}, IntrastateZones: []string{"East", "Middle", "West"},
		Notes: "TN1=East (Appalachian), TN2=West (bottomland hardwood, some pine)"},
	"OH": {State: "OH", Primary: AppalachianHardwood, Secondary: []TimberMarket{OakHickory, NorthernHardwood},
		IntrastateZones: []string{"Northeast", "Northwest", "South"},
		Notes:           "SE=Appalachian hardwood, NW=oak-hickory transition"},
	"MO": {State: "MO", Primary: OakHickory,
		IntrastateZones: []string{"North", "South (Ozarks)"},
		Notes:           "Ozark hardwoods. White oak for bourbon barrels."},
	"IN": {State: "IN", Primary: OakHickory, Secondary: []TimberMarket{NorthernHardwood},
		IntrastateZones: []string{"North", "South"},
		Notes:           "Central hardwoods. Walnut, oak focus."},
	"PA": {State: "PA", Primary: NorthernHardwood, Secondary: []TimberMarket{AppalachianHardwood},
		IntrastateZones: []string{"Northwest", "Northeast", "Southwest", "Southeast"},
		Notes:           "Major hardwood producer. Penn State quarterly reports."},

	// Lake States: multiple distinct markets per state.
	"MI": {State: "MI", Primary: NorthernHardwood, Secondary: []TimberMarket{AspenPulp, SpruceFir},
		IntrastateZones: []string{"Upper Peninsula", "Northern Lower Peninsula", "Southern LP"},
		Notes:           "UP=spruce-fir + hardwood, NLP=aspen + hardwood."},
	"WI": {State: "WI", Primary: AspenPulp, Secondary: []TimberMarket{NorthernHardwood, SpruceFir},
		IntrastateZones: []string{"North", "Central", "South"},
		Notes:           "Strong aspen pulp industry."},
	"MN": {State: "MN", Primary: AspenPulp, Secondary: []TimberMarket{SpruceFir, NorthernHardwood},
		IntrastateZones: []string{"Northeast", "North Central", "Northwest"},
		Notes:           "Aspen dominant. Some spruce-fir in arrowhead."},

	// Northeast.
	"ME": {State: "ME", Primary: SpruceFir, Secondary: []TimberMarket{NorthernHardwood},
		IntrastateZones: []string{"North Woods", "Central", "Southern"},
		Notes:           "Spruce-fir pulpwood dominant. Paper industry."},
	"NH": {State: "NH", Primary: NorthernHardwood, Secondary: []TimberMarket{SpruceFir},
		IntrastateZones: []string{"North Country", "Lakes Region", "South"},
		Notes:           "White pine also significant. DRA reports."},
	"VT": {State: "VT", Primary: NorthernHardwood, Secondary: []TimberMarket{SpruceFir},
		IntrastateZones: []string{"Northeast Kingdom", "Central", "Southern"},
		Notes:           "Sugar maple focus. Quarterly FPR data."},
	"NY": {State: "NY", Primary: NorthernHardwood, Secondary: []TimberMarket{AppalachianHardwood, SpruceFir},
		IntrastateZones: []string{"Adirondack", "Catskills", "Hudson-Mohawk", "Western-Central"},
		Notes:           "4 distinct market regions."},

	// Pacific Northwest and Rockies.
	"OR": {State: "OR", Primary: DouglasFir, Secondary: []TimberMarket{WesternPine},
		IntrastateZones: []string{"Coast", "Willamette Valley", "Cascades West", "East Oregon"},
		Notes:           "Cascade divide. West=Douglas-fir, East=ponderosa."},
	"WA": {State: "WA", Primary: DouglasFir, Secondary: []TimberMarket{WesternPine},
		IntrastateZones: []string{"Coast", "Puget Sound", "Cascades West", "East Washington"},
		Notes:           "Similar east-west divide as Oregon."},
	"CA": {State: "CA", Primary: DouglasFir, Secondary: []TimberMarket{WesternPine},
		IntrastateZones: []string{"Redwood Coast", "Klamath", "Sierra Nevada"},
		Notes:           "Redwood is unique species. Limited public stumpage data."},
	"ID": {State: "ID", Primary: WesternPine, Secondary: []TimberMarket{DouglasFir},
		IntrastateZones: []string{"North", "Central", "South"},
		Notes:           "North ID more productive."},
	"MT": {State: "MT", Primary: WesternPine,
		IntrastateZones: []string{"Western", "Central"},
		Notes:           "Ponderosa, lodgepole, Douglas-fir. National Forest dominant."},
}

// TMSStates lists TimberMart-South coverage.
var TMSStates = []string{"AL", "AR", "FL", "GA", "LA", "MS", "NC", "SC", "TN", "TX", "VA"}

// TMSCoreRegions carries roughly 90% of southern pine removals.
var TMSCoreRegions = []string{
	"AL1", "AL2", "AR2", "FL2", "GA1", "GA2",
	"LA1", "MS1", "MS2", "NC2", "SC2", "TX2",
}

// MarketStates returns all states participating in a market, primary or secondary.
func MarketStates(m TimberMarket) []string {
	var states []string
	for state, p := range StateParticipation {
		if p.Primary == m || containsMarket(p.Secondary, m) {
			states = append(states, state)
		}
	}
	sort.Strings(states)
	return states
}

// PrimaryMarketStates returns states where m is the primary market.
func PrimaryMarketStates(m TimberMarket) []string {
	var states []string
	for state, p := range StateParticipation {
		if p.Primary == m {
			states = append(states, state)
		}
	}
	sort.Strings(states)
	return states
}

// StateMarkets returns all markets a state participates in, primary first.
func StateMarkets(state string) []TimberMarket {
	p, ok := StateParticipation[state]
	if !ok {
		return nil
	}
	return append([]TimberMarket{p.Primary}, p.Secondary...)
}

// PrimaryMarket returns the state's primary market, or "" for states outside
// the participation map.
func PrimaryMarket(state string) TimberMarket {
	p, ok := StateParticipation[state]
	if !ok {
		return ""
	}
	return p.Primary
}

func containsMarket(ms []TimberMarket, m TimberMarket) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
