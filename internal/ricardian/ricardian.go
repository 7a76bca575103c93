// Package ricardian fits the cross-sectional rent regression and backfills
// county-years the price sources never covered.
//
// The model follows the Ricardian land-rent tradition: observed rent is
// regressed on climate (quadratic in temperature and precipitation), site
// productivity, surveyed land value, and timber market fixed effects. The
// fitted surface then predicts rent for counties where no agency reports
// prices.
package ricardian

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/observability"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

// minExtraObservations is the margin required above the parameter count
// before a fit is attempted.
const minExtraObservations = 10

var (
	ErrTooFewObservations = errors.New("too few observations for estimation")
	ErrDegenerateFit      = errors.New("design matrix is degenerate")
)

// Fit holds the estimated regression and its diagnostics.
type Fit struct {
	Names      []string            `json:"names"`
	Coef       []float64           `json:"coef"`
	StdErr     []float64           `json:"std_err"`
	TStat      []float64           `json:"t_stat"`
	R2         float64             `json:"r2"`
	AdjR2      float64             `json:"adj_r2"`
	RMSE       float64             `json:"rmse"`
	N          int                 `json:"n"`
	K          int                 `json:"k"`
	Excluded   int                 `json:"excluded"` // rows dropped for missing covariates
	BaseMarket market.TimberMarket `json:"base_market"`
	FittedAt   time.Time           `json:"fitted_at"`

	marketIdx map[market.TimberMarket]int
}

// Estimator fits the model and applies it to the panel.
type Estimator struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewEstimator(logger *slog.Logger, metrics *observability.Metrics) *Estimator {
	return &Estimator{logger: logger, metrics: metrics}
}

// covariates returns the non-dummy regressor values for a row, or false when
// any is missing.
func covariates(r *panel.Row) ([]float64, bool) {
	if r.MAI <= 0 || r.LandValue <= 0 || r.PrecipMM <= 0 {
		return nil, false
	}
	return []float64{
		r.TmeanC,
		r.TmeanC * r.TmeanC,
		r.PrecipMM,
		r.PrecipMM * r.PrecipMM,
		r.MAI,
		r.LandValue,
	}, true
}

var covariateNames = []string{
	"tmean_c", "tmean_c_sq", "precip_mm", "precip_mm_sq", "mai_cuft", "land_value",
}

// FitPanel estimates log(rent) on the observed rows of the panel.
func (e *Estimator) FitPanel(p *panel.Panel) (*Fit, error) {
	rows := p.Rows()

	// Collect usable rows and the set of markets that appear, so the dummy
	// columns cover exactly the estimable categories.
	var usable []panel.Row
	excluded := 0
	marketSet := map[market.TimberMarket]bool{}
	for _, r := range rows {
		if r.Source != panel.Observed {
			continue
		}
		if _, ok := covariates(&r); !ok || r.RentPerAcre <= 0 || r.Market == "" {
			excluded++
			continue
		}
		usable = append(usable, r)
		marketSet[r.Market] = true
	}

	markets := make([]market.TimberMarket, 0, len(marketSet))
	for m := range marketSet {
		markets = append(markets, m)
	}
	sort.Slice(markets, func(i, j int) bool { return markets[i] < markets[j] })
	if len(markets) == 0 {
		return nil, ErrTooFewObservations
	}

	// First market in sort order is the base category.
	base := markets[0]
	dummies := markets[1:]
	marketIdx := map[market.TimberMarket]int{}
	for i, m := range dummies {
		marketIdx[m] = i
	}

	k := 1 + len(covariateNames) + len(dummies)
	n := len(usable)
	if n < k+minExtraObservations {
		return nil, fmt.Errorf("%w: have %d rows, need %d", ErrTooFewObservations, n, k+minExtraObservations)
	}

	X := mat.NewDense(n, k, nil)
	y := mat.NewVecDense(n, nil)
	for i, r := range usable {
		cov, _ := covariates(&r)
		X.Set(i, 0, 1)
		for j, v := range cov {
			X.Set(i, 1+j, v)
		}
		if di, ok := marketIdx[r.Market]; ok {
			X.Set(i, 1+len(cov)+di, 1)
		}
		y.SetVec(i, math.Log(r.RentPerAcre))
	}

	var qr mat.QR
	qr.Factorize(X)
	beta := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(beta, false, y); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}
	for i := 0; i < k; i++ {
		if math.IsNaN(beta.AtVec(i)) || math.IsInf(beta.AtVec(i), 0) {
			return nil, ErrDegenerateFit
		}
	}

	// Residual variance and coefficient covariance sigma^2 (X'X)^-1.
	fittedVals := mat.NewVecDense(n, nil)
	fittedVals.MulVec(X, beta)
	rss := 0.0
	resid := make([]float64, n)
	obs := make([]float64, n)
	for i := 0; i < n; i++ {
		obs[i] = y.AtVec(i)
		r := y.AtVec(i) - fittedVals.AtVec(i)
		resid[i] = r
		rss += r * r
	}
	sigma2 := rss / float64(n-k)

	var xtx, xtxInv mat.Dense
	xtx.Mul(X.T(), X)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateFit, err)
	}

	mean := stat.Mean(obs, nil)
	tss := 0.0
	for _, v := range obs {
		d := v - mean
		tss += d * d
	}
	if tss == 0 {
		return nil, ErrDegenerateFit
	}

	fit := &Fit{
		Names:      make([]string, 0, k),
		Coef:       make([]float64, k),
		StdErr:     make([]float64, k),
		TStat:      make([]float64, k),
		R2:         1 - rss/tss,
		RMSE:       math.Sqrt(rss / float64(n)),
		N:          n,
		K:          k,
		Excluded:   excluded,
		BaseMarket: base,
		FittedAt:   stumpage.Now(),
		marketIdx:  marketIdx,
	}
	fit.AdjR2 = 1 - (1-fit.R2)*float64(n-1)/float64(n-k)

	fit.Names = append(fit.Names, "intercept")
	fit.Names = append(fit.Names, covariateNames...)
	for _, m := range dummies {
		fit.Names = append(fit.Names, "market_"+string(m))
	}
	for i := 0; i < k; i++ {
		fit.Coef[i] = beta.AtVec(i)
		fit.StdErr[i] = math.Sqrt(sigma2 * xtxInv.At(i, i))
		if fit.StdErr[i] > 0 {
			fit.TStat[i] = fit.Coef[i] / fit.StdErr[i]
		}
	}

	e.metrics.FitR2.Set(fit.R2)
	e.metrics.FitRMSE.Set(fit.RMSE)
	e.logger.Info("model fitted",
		"n", fit.N, "k", fit.K, "excluded", fit.Excluded,
		"r2", fit.R2, "adj_r2", fit.AdjR2, "rmse", fit.RMSE)

	return fit, nil
}

// Predict returns the fitted rent for a row's covariates, floored at zero.
// Returns false when a covariate is missing or the row's market was not in
// the estimation sample.
func (f *Fit) Predict(r *panel.Row) (float64, bool) {
	f.ensureMarketIdx()
	cov, ok := covariates(r)
	if !ok {
		return 0, false
	}
	if r.Market == "" {
		return 0, false
	}
	di, inSample := f.marketIdx[r.Market]
	if !inSample && r.Market != f.BaseMarket {
		return 0, false
	}

	logRent := f.Coef[0]
	for j, v := range cov {
		logRent += f.Coef[1+j] * v
	}
	if inSample {
		logRent += f.Coef[1+len(cov)+di]
	}

	rent := math.Exp(logRent)
	if rent < 0 || math.IsNaN(rent) || math.IsInf(rent, 0) {
		return 0, false
	}
	return rent, true
}

// ensureMarketIdx rebuilds the dummy-column index from Names. A Fit loaded
// back from the store arrives without the unexported index.
func (f *Fit) ensureMarketIdx() {
	if f.marketIdx != nil {
		return
	}
	f.marketIdx = map[market.TimberMarket]int{}
	di := 0
	for _, name := range f.Names {
		if m, ok := strings.CutPrefix(name, "market_"); ok {
			f.marketIdx[market.TimberMarket(m)] = di
			di++
		}
	}
}

// Backfill fills missing county-years with model predictions. Observed rows
// are never touched; counties without complete covariates stay missing.
// Returns the number of rows added.
func (e *Estimator) Backfill(p *panel.Panel, fit *Fit, cov *covariate.Set) (int, error) {
	filled := 0
	for fips, c := range cov.Counties {
		site, hasSite := cov.Sites[fips]
		climate, hasClimate := cov.Climate[fips]
		if !hasSite || !hasClimate {
			continue
		}
		for year := p.StartYear; year <= p.EndYear; year++ {
			if _, ok := p.Get(fips, year); ok {
				continue
			}
			row := panel.Row{
				FIPS:      fips,
				Year:      year,
				Market:    market.PrimaryMarket(c.State),
				SiteClass: site.MeanClass,
				MAI:       site.MAI,
				TmeanC:    climate.TmeanC,
				PrecipMM:  climate.PrecipMM,
				Source:    panel.Model,
				Vintage:   stumpage.Now(),
			}
			if lv, ok := cov.LandValue[c.State][year]; ok {
				row.LandValue = lv
			}
			rent, ok := fit.Predict(&row)
			if !ok {
				continue
			}
			row.RentPerAcre = rent
			if row.MAI > 0 {
				row.PricePerTon = rent / (row.MAI * panel.TonsPerCubicFoot)
			}
			if err := p.Upsert(row); err != nil {
				return filled, err
			}
			filled++
		}
	}

	e.metrics.BackfilledRows.Set(float64(filled))
	e.logger.Info("panel backfilled", "rows", filled)
	return filled, nil
}
