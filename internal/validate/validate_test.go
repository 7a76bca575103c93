package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

func goodRecord() stumpage.Record {
	r := stumpage.Record{
		Source: "MS", Year: 2020, Quarter: 2, Period: stumpage.Quarterly,
		Region: "Statewide", Species: "pine", Product: "sawtimber",
		PriceAvg: stumpage.Float(350), Unit: "$/mbf",
		PerTon: stumpage.Float(50), Factor: stumpage.Float(7.0),
	}
	r.ID = r.GenerateID()
	return r
}

func TestCheckUnifiedSchema(t *testing.T) {
	t.Run("clean record passes", func(t *testing.T) {
		p := checkUnifiedSchema([]stumpage.Record{goodRecord()})
		assert.True(t, p.Passed(), "errors: %v", p.Errors)
	})

	t.Run("flags schema violations", func(t *testing.T) {
		bad := goodRecord()
		bad.Quarter = 5
		bad.Unit = "$/bushel"
		bad.ID = "stale-id"

		p := checkUnifiedSchema([]stumpage.Record{bad})
		require.False(t, p.Passed())
		assert.Len(t, p.Errors, 3)
	})

	t.Run("inverted price range", func(t *testing.T) {
		bad := goodRecord()
		bad.PriceLow = stumpage.Float(100)
		bad.PriceHigh = stumpage.Float(50)
		bad.ID = bad.GenerateID()

		p := checkUnifiedSchema([]stumpage.Record{bad})
		assert.False(t, p.Passed())
	})
}

func TestCheckConversions(t *testing.T) {
	t.Run("consistent conversion passes", func(t *testing.T) {
		p := checkConversions([]stumpage.Record{goodRecord()})
		assert.True(t, p.Passed(), "errors: %v", p.Errors)
	})

	t.Run("per-ton that does not re-derive fails", func(t *testing.T) {
		bad := goodRecord()
		bad.PerTon = stumpage.Float(60)
		p := checkConversions([]stumpage.Record{bad})
		assert.False(t, p.Passed())
	})

	t.Run("factor off the published table fails", func(t *testing.T) {
		bad := goodRecord()
		bad.Factor = stumpage.Float(5.0)
		bad.PerTon = stumpage.Float(70) // re-derives against 5.0
		p := checkConversions([]stumpage.Record{bad})
		assert.False(t, p.Passed())
	})

	t.Run("administered series exempt from table check", func(t *testing.T) {
		usfs := goodRecord()
		usfs.Source = "WA_OR"
		usfs.Notes = "USFS PNW National Forest stumpage. Administered pricing, not market."
		usfs.Factor = stumpage.Float(4.0)
		usfs.PriceAvg = stumpage.Float(200)
		usfs.PerTon = stumpage.Float(50)
		p := checkConversions([]stumpage.Record{usfs})
		assert.True(t, p.Passed(), "errors: %v", p.Errors)
	})
}

func TestCheckPanel(t *testing.T) {
	counties := map[string]covariate.County{
		"13001": {FIPS: "13001", State: "GA"},
	}
	pn := panel.NewPanel(counties, 2019, 2020)
	require.NoError(t, pn.Upsert(panel.Row{
		FIPS: "13001", Year: 2019, Market: market.SouthernPine,
		RentPerAcre: 80, PricePerTon: 30, Source: panel.Observed,
	}))

	t.Run("clean panel passes", func(t *testing.T) {
		p := checkPanel(pn)
		assert.True(t, p.Passed(), "errors: %v", p.Errors)
	})

	t.Run("observed row without price fails", func(t *testing.T) {
		require.NoError(t, pn.Upsert(panel.Row{
			FIPS: "13001", Year: 2020, RentPerAcre: 10, Source: panel.Observed,
		}))
		p := checkPanel(pn)
		assert.False(t, p.Passed())
	})
}

func TestCheckFit(t *testing.T) {
	good := &ricardian.Fit{
		Names:  []string{"intercept", "tmean_c"},
		Coef:   []float64{2, 0.05},
		StdErr: []float64{0.1, 0.01},
		TStat:  []float64{20, 5},
		R2:     0.8, AdjR2: 0.79, RMSE: 0.4, N: 40, K: 2,
	}

	t.Run("sane fit passes", func(t *testing.T) {
		p := checkFit(good)
		assert.True(t, p.Passed(), "errors: %v", p.Errors)
	})

	t.Run("undersized sample fails", func(t *testing.T) {
		small := *good
		small.N = 5
		p := checkFit(&small)
		assert.False(t, p.Passed())
	})

	t.Run("mismatched vectors fail", func(t *testing.T) {
		broken := *good
		broken.Coef = []float64{2}
		p := checkFit(&broken)
		assert.False(t, p.Passed())
	})
}

func TestRunSkipsAbsentStages(t *testing.T) {
	phases := Run([]stumpage.Record{goodRecord()}, nil, nil)
	assert.Len(t, phases, 2)
	assert.True(t, AllPassed(phases))
}
