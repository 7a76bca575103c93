package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestecon/forest-rents/internal/harmonize"
	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/ricardian"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

func sampleRecords() []stumpage.Record {
	return []stumpage.Record{
		{ID: "ga-1", Source: "GA", Year: 2019, Period: stumpage.Annual,
			Species: "pine", Product: "sawtimber", Unit: "$/ton", PerTon: stumpage.Float(30)},
		{ID: "ms-1", Source: "MS", Year: 2019, Quarter: 1, Period: stumpage.Quarterly,
			Species: "oak", Product: "sawtimber", Unit: "$/mbf", PerTon: stumpage.Float(90)},
		{ID: "ms-2", Source: "MS", Year: 2019, Quarter: 3, Period: stumpage.Quarterly,
			Species: "pine", Product: "pulpwood", Unit: "$/cord", PerTon: stumpage.Float(10)},
		{ID: "mi-1", Source: "MI", Year: 2019, Quarter: 1, Period: stumpage.Quarterly,
			Species: "pine", Product: "sawtimber", Unit: "index"},
	}
}

func TestLoadingSummary(t *testing.T) {
	var buf bytes.Buffer
	LoadingSummary(&buf, []harmonize.SourceStat{
		{Name: "Georgia", State: "GA", Records: 1200, FirstYear: 1997, LastYear: 2023},
		{Name: "Maine", State: "ME"},
	})

	out := buf.String()
	assert.Contains(t, out, "Georgia")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "1997-2023")
	assert.Contains(t, out, "no data")
}

func TestRecordAndPriceSummaries(t *testing.T) {
	var buf bytes.Buffer
	RecordSummary(&buf, sampleRecords())
	PriceStats(&buf, sampleRecords())

	out := buf.String()
	assert.Contains(t, out, "Records by State")
	assert.Contains(t, out, "Records by Product")
	assert.Contains(t, out, "Price per Ton by Product")
	assert.Contains(t, out, "sawtimber")
	assert.Contains(t, out, "60.00") // mean of 30 and 90
}

func TestCoverageGaps(t *testing.T) {
	var buf bytes.Buffer
	CoverageGaps(&buf, sampleRecords())

	out := buf.String()
	assert.Contains(t, out, "MS")
	assert.Contains(t, out, "2019-Q2", "missing quarter is listed")
	assert.NotContains(t, out, "GA", "annual sources are not gap-checked")
}

func TestPanelSummary(t *testing.T) {
	var buf bytes.Buffer
	PanelSummary(&buf, panel.Coverage{
		Counties: 150, Years: 27, Expected: 4050, Observed: 2800, Modeled: 1000,
		MissingByState: map[string]int{"MT": 250},
	})

	out := buf.String()
	assert.Contains(t, out, "4,050")
	assert.Contains(t, out, "93.8%")
	assert.Contains(t, out, "MT")
}

func TestRegressionTable(t *testing.T) {
	var buf bytes.Buffer
	RegressionTable(&buf, &ricardian.Fit{
		Names:      []string{"intercept", "tmean_c"},
		Coef:       []float64{2.1, 0.052},
		StdErr:     []float64{0.1, 0.01},
		TStat:      []float64{21.0, 5.2},
		R2:         0.82, AdjR2: 0.81, RMSE: 0.4, N: 140, K: 2,
		BaseMarket: market.SouthernPine,
	})

	out := buf.String()
	assert.Contains(t, out, "tmean_c")
	assert.Contains(t, out, "southern_pine")
	assert.Contains(t, out, "R2=0.820")
	assert.Contains(t, out, "n=140")
}

func TestTrendChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "trend.html")
	require.NoError(t, TrendChart(path, "sawtimber", sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Softwood")
	assert.Contains(t, string(data), "Hardwood")

	t.Run("no data is an error", func(t *testing.T) {
		err := TrendChart(filepath.Join(t.TempDir(), "x.html"), "veneer", sampleRecords())
		assert.Error(t, err)
	})
}
