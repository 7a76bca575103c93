package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestecon/forest-rents/internal/covariate"
	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// A fresh file per test keeps tests isolated; the shared in-memory DSN
	// would leak tables across tests in the same process.
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPricesRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := stumpage.Record{
		Source: "GA", Year: 2019, Period: stumpage.Annual, Region: "Statewide",
		County: "Appling", Species: "pine", Product: "sawtimber",
		PriceAvg: stumpage.Float(28.50), Unit: "$/ton",
		PerTon: stumpage.Float(28.50), Factor: stumpage.Float(1.0),
		Notes:       "County-level fair market values",
		ProcessedAt: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
	}
	rec.ID = rec.GenerateID()

	require.NoError(t, s.SavePrices(ctx, []stumpage.Record{rec}))

	got, err := s.LoadPrices(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, rec.Source, got[0].Source)
	require.NotNil(t, got[0].PerTon)
	assert.InDelta(t, 28.50, *got[0].PerTon, 0.001)
	assert.Nil(t, got[0].PriceLow)
	assert.Nil(t, got[0].SampleSize)
	assert.Equal(t, rec.ProcessedAt, got[0].ProcessedAt)
}

func TestSavePricesIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := stumpage.Record{Source: "MS", Year: 2020, Quarter: 2, Period: stumpage.Quarterly,
		Region: "Statewide", Species: "pine", Product: "pulpwood", Unit: "$/cord"}
	rec.ID = rec.GenerateID()

	require.NoError(t, s.SavePrices(ctx, []stumpage.Record{rec}))

	// Re-running the batch with a revised price must replace, not duplicate.
	rec.PriceAvg = stumpage.Float(31.0)
	require.NoError(t, s.SavePrices(ctx, []stumpage.Record{rec}))

	n, err := s.CountPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.LoadPrices(ctx)
	require.NoError(t, err)
	require.NotNil(t, got[0].PriceAvg)
	assert.InDelta(t, 31.0, *got[0].PriceAvg, 0.001)
}

func TestPanelRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rows := []panel.Row{
		{FIPS: "13001", Year: 2019, Market: market.SouthernPine, RentPerAcre: 84.2,
			PricePerTon: 30, HarvestTons: 120000, SiteClass: 4, MAI: 102,
			TmeanC: 19.2, PrecipMM: 1240, LandValue: 1850, Source: panel.Observed,
			Vintage: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)},
		{FIPS: "13005", Year: 2019, Market: market.SouthernPine, RentPerAcre: 40.1,
			Source: panel.Model,
			Vintage: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, s.SavePanel(ctx, rows))

	got, err := s.LoadPanel(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "13001", got[0].FIPS)
	assert.Equal(t, panel.Observed, got[0].Source)
	assert.Equal(t, market.SouthernPine, got[0].Market)
	assert.InDelta(t, 84.2, got[0].RentPerAcre, 0.001)
	assert.Equal(t, panel.Model, got[1].Source)

	// Same key replaces.
	rows[1].RentPerAcre = 45.5
	require.NoError(t, s.SavePanel(ctx, rows))
	got, err = s.LoadPanel(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 45.5, got[1].RentPerAcre, 0.001)
}

func TestCountiesRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	counties := map[string]covariate.County{
		"13001": {FIPS: "13001", Name: "Appling", State: "GA", Lat: 31.75, Lon: -82.29, ForestAcres: 210000},
	}
	require.NoError(t, s.SaveCounties(ctx, counties))
	require.NoError(t, s.SaveCounties(ctx, counties)) // idempotent
}

func TestFitRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	t.Run("empty store has no fit", func(t *testing.T) {
		fit, err := s.LatestFit(ctx)
		require.NoError(t, err)
		assert.Nil(t, fit)
	})

	fit := &ricardian.Fit{
		Names:      []string{"intercept", "tmean_c"},
		Coef:       []float64{2.0, 0.05},
		StdErr:     []float64{0.1, 0.01},
		TStat:      []float64{20, 5},
		R2:         0.82,
		AdjR2:      0.81,
		RMSE:       0.4,
		N:          120,
		K:          2,
		BaseMarket: market.SouthernPine,
		FittedAt:   time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveFit(ctx, fit))

	later := *fit
	later.R2 = 0.85
	later.FittedAt = fit.FittedAt.Add(time.Hour)
	require.NoError(t, s.SaveFit(ctx, &later))

	got, err := s.LatestFit(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.85, got.R2, 0.001, "latest fit wins")
	assert.Equal(t, fit.Names, got.Names)
}
