// Package panel assembles the county-year forest rent panel from harmonized
// stumpage prices and county covariates.
//
// Prices arrive at mixed resolution: Georgia at the county level, most
// states by region or statewide, and the USFS western series under combined
// codes like MT_ID that span two states. The builder pushes every price down
// to the counties it covers, blends softwood and hardwood prices by each
// county's harvest split, and converts the blended $/ton into a $/acre/yr
// land rent through the county's mean annual increment.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/observability"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// RowSource tags how a panel row was produced.
type RowSource string

const (
	Observed RowSource = "observed" // built from reported prices
	Model    RowSource = "model"    // backfilled from the fitted regression
)

// TonsPerCubicFoot converts increment volume to green weight. Commercial
// species run 0.025-0.030 short tons per cubic foot; 0.0275 is the midpoint.
const TonsPerCubicFoot = 0.0275

// Row is one county-year observation of the rent panel.
type Row struct {
	FIPS        string              `json:"fips"`
	Year        int                 `json:"year"`
	Market      market.TimberMarket `json:"market"`
	RentPerAcre float64             `json:"rent_per_acre"`
	PricePerTon float64             `json:"price_per_ton"`
	HarvestTons float64             `json:"harvest_tons"`
	SiteClass   float64             `json:"site_class"`
	MAI         float64             `json:"mai_cuft"`
	TmeanC      float64             `json:"tmean_c"`
	PrecipMM    float64             `json:"precip_mm"`
	LandValue   float64             `json:"land_value"`
	Source      RowSource           `json:"source"`
	Vintage     time.Time           `json:"vintage"`
}

// ID returns the row's natural key.
func (r *Row) ID() string { return fmt.Sprintf("%s-%d", r.FIPS, r.Year) }

// Panel is the assembled county-year panel with upsert invariants.
type Panel struct {
	StartYear int
	EndYear   int

	rows     map[string]*Row // FIPS-year -> row
	counties map[string]covariate.County
}

// NewPanel creates an empty panel over [startYear, endYear] anchored to the
// county boundary table.
func NewPanel(counties map[string]covariate.County, startYear, endYear int) *Panel {
	return &Panel{
		StartYear: startYear,
		EndYear:   endYear,
		rows:      map[string]*Row{},
		counties:  counties,
	}
}

// Upsert inserts or replaces a row. Unknown FIPS codes are rejected, and a
// model row never displaces an observed one.
func (p *Panel) Upsert(row Row) error {
	if _, ok := p.counties[row.FIPS]; !ok {
		return fmt.Errorf("fips %s not in county boundary table", row.FIPS)
	}
	if row.Year < p.StartYear || row.Year > p.EndYear {
		return fmt.Errorf("year %d outside panel range %d-%d", row.Year, p.StartYear, p.EndYear)
	}
	key := row.ID()
	if existing, ok := p.rows[key]; ok && existing.Source == Observed && row.Source == Model {
		return nil
	}
	p.rows[key] = &row
	return nil
}

// Get returns the row for a county-year, if present.
func (p *Panel) Get(fips string, year int) (*Row, bool) {
	r, ok := p.rows[fips+"-"+fmt.Sprint(year)]
	return r, ok
}

// Rows returns all rows ordered by FIPS then year.
func (p *Panel) Rows() []Row {
	out := make([]Row, 0, len(p.rows))
	for _, r := range p.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FIPS != out[j].FIPS {
			return out[i].FIPS < out[j].FIPS
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// Len returns the number of rows in the panel.
func (p *Panel) Len() int { return len(p.rows) }

// Coverage summarizes observed rows against the full county-year grid.
type Coverage struct {
	Counties       int
	Years          int
	Expected       int
	Observed       int
	Modeled        int
	MissingByState map[string]int
}

// Coverage computes panel completeness over the county-year grid.
func (p *Panel) Coverage() Coverage {
	cov := Coverage{
		Counties:       len(p.counties),
		Years:          p.EndYear - p.StartYear + 1,
		MissingByState: map[string]int{},
	}
	cov.Expected = cov.Counties * cov.Years
	for fips, c := range p.counties {
		for year := p.StartYear; year <= p.EndYear; year++ {
			r, ok := p.rows[fips+"-"+fmt.Sprint(year)]
			switch {
			case !ok:
				cov.MissingByState[c.State]++
			case r.Source == Observed:
				cov.Observed++
			default:
				cov.Modeled++
			}
		}
	}
	return cov
}

// Builder assembles observed panel rows from prices and covariates.
type Builder struct {
	cov     *covariate.Set
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewBuilder(cov *covariate.Set, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{cov: cov, logger: logger, metrics: metrics}
}

// statePrice accumulates per-ton price observations for one scope-year.
type statePrice struct {
	softSum, hardSum     float64
	softCount, hardCount int
}

func (s *statePrice) add(perTon float64, softwood bool) {
	if softwood {
		s.softSum += perTon
		s.softCount++
	} else {
		s.hardSum += perTon
		s.hardCount++
	}
}

func (s *statePrice) soft() (float64, bool) {
	if s.softCount == 0 {
		return 0, false
	}
	return s.softSum / float64(s.softCount), true
}

func (s *statePrice) hard() (float64, bool) {
	if s.hardCount == 0 {
		return 0, false
	}
	return s.hardSum / float64(s.hardCount), true
}

// Build assembles the observed panel for [startYear, endYear].
func (b *Builder) Build(ctx context.Context, recs []stumpage.Record, startYear, endYear int) (*Panel, error) {
	start := time.Now()
	p := NewPanel(b.cov.Counties, startYear, endYear)

	statePrices, countyPrices := b.aggregate(recs, startYear, endYear)

	for fips, c := range b.cov.Counties {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for year := startYear; year <= endYear; year++ {
			prices := countyPrices[fips+"-"+fmt.Sprint(year)]
			if prices == nil {
				prices = statePrices[c.State+"-"+fmt.Sprint(year)]
			}
			if prices == nil {
				continue
			}
			row, ok := b.observedRow(c, year, prices)
			if !ok {
				continue
			}
			if err := p.Upsert(row); err != nil {
				return nil, err
			}
		}
	}

	cov := p.Coverage()
	b.metrics.PanelRows.Set(float64(p.Len()))
	if cov.Expected > 0 {
		b.metrics.PanelCoverage.Set(float64(cov.Observed) / float64(cov.Expected))
	}
	b.metrics.StageDuration.WithLabelValues("panel").Observe(time.Since(start).Seconds())
	b.logger.Info("panel assembled",
		"rows", p.Len(), "counties", cov.Counties, "years", cov.Years,
		"observed", cov.Observed, "expected", cov.Expected)

	return p, nil
}

// aggregate buckets convertible per-ton prices by scope. State and region
// rows bucket per state-year (combined codes like MT_ID feed both member
// states); Georgia county rows bucket per county-year.
func (b *Builder) aggregate(recs []stumpage.Record, startYear, endYear int) (state, county map[string]*statePrice) {
	state = map[string]*statePrice{}
	county = map[string]*statePrice{}

	countyByName := map[string]string{}
	for fips, c := range b.cov.Counties {
		countyByName[c.State+"|"+strings.ToUpper(c.Name)] = fips
	}

	for _, r := range recs {
		if r.PerTon == nil || *r.PerTon <= 0 || r.Year < startYear || r.Year > endYear {
			continue
		}
		soft := isSoftwood(r.Species)

		if r.County != "" {
			fips, ok := countyByName[primaryState(r.Source)+"|"+strings.ToUpper(r.County)]
			if !ok {
				continue
			}
			key := fips + "-" + fmt.Sprint(r.Year)
			if county[key] == nil {
				county[key] = &statePrice{}
			}
			county[key].add(*r.PerTon, soft)
			continue
		}

		for _, st := range splitStates(r.Source) {
			key := st + "-" + fmt.Sprint(r.Year)
			if state[key] == nil {
				state[key] = &statePrice{}
			}
			state[key].add(*r.PerTon, soft)
		}
	}
	return state, county
}

// observedRow builds one county-year row: price blended by the county's
// harvest split, rent via MAI, covariates attached.
func (b *Builder) observedRow(c covariate.County, year int, prices *statePrice) (Row, bool) {
	softPrice, hasSoft := prices.soft()
	hardPrice, hasHard := prices.hard()
	if !hasSoft && !hasHard {
		return Row{}, false
	}

	var harvestTons, softTons, hardTons float64
	if h, ok := b.cov.Harvest[c.FIPS][year]; ok {
		softTons, hardTons = h.SoftTons, h.HardTons
		harvestTons = softTons + hardTons
	}

	// Blend by harvest split where both species groups have prices and the
	// county reports removals; otherwise average what exists.
	var price float64
	switch {
	case hasSoft && hasHard && harvestTons > 0:
		price = (softPrice*softTons + hardPrice*hardTons) / harvestTons
	case hasSoft && hasHard:
		price = (softPrice + hardPrice) / 2
	case hasSoft:
		price = softPrice
	default:
		price = hardPrice
	}

	site, ok := b.cov.Sites[c.FIPS]
	if !ok {
		return Row{}, false
	}

	row := Row{
		FIPS:        c.FIPS,
		Year:        year,
		Market:      market.PrimaryMarket(c.State),
		RentPerAcre: price * site.MAI * TonsPerCubicFoot,
		PricePerTon: price,
		HarvestTons: harvestTons,
		SiteClass:   site.MeanClass,
		MAI:         site.MAI,
		Source:      Observed,
		Vintage:     stumpage.Now(),
	}
	if cl, ok := b.cov.Climate[c.FIPS]; ok {
		row.TmeanC = cl.TmeanC
		row.PrecipMM = cl.PrecipMM
	}
	if lv, ok := b.cov.LandValue[c.State][year]; ok {
		row.LandValue = lv
	}
	return row, true
}

// splitStates expands a source code into its member states: "MT_ID" covers
// Montana and Idaho, plain codes cover themselves.
func splitStates(source string) []string {
	return strings.Split(source, "_")
}

func primaryState(source string) string {
	return splitStates(source)[0]
}

func isSoftwood(species string) bool {
	s := strings.ToLower(species)
	for _, kw := range []string{"pine", "spruce", "fir", "hemlock", "cedar", "larch", "softwood", "douglas", "cypress"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
