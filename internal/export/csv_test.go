package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forestecon/forest-rents/internal/market"
	"github.com/forestecon/forest-rents/internal/panel"
	"github.com/forestecon/forest-rents/internal/stumpage"
)

func TestWritePricesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stumpage_unified.csv")

	recs := []stumpage.Record{
		{ID: "ga-abc", Source: "GA", Year: 2019, Period: stumpage.Annual,
			Region: "Statewide", County: "Appling", Species: "pine", Product: "sawtimber",
			PriceAvg: stumpage.Float(28.5), Unit: "$/ton", PerTon: stumpage.Float(28.5),
			Factor: stumpage.Float(1)},
		{ID: "ms-def", Source: "MS", Year: 2020, Quarter: 2, Period: stumpage.Quarterly,
			Region: "Statewide", Species: "oak", Product: "pulpwood", Unit: "$/cord"},
	}
	require.NoError(t, WritePricesCSV(path, recs))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, pricesHeader, rows[0])
	assert.Equal(t, "ga-abc", rows[1][0])
	assert.Equal(t, "", rows[1][3], "annual records leave the quarter blank")
	assert.Equal(t, "28.5", rows[1][13])
	assert.Equal(t, "2", rows[2][3])
	assert.Equal(t, "", rows[2][13], "unconverted record has no per-ton price")
}

func TestWritePanelCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	rows := []panel.Row{
		{FIPS: "13001", Year: 2019, Market: market.SouthernPine, RentPerAcre: 84.15,
			PricePerTon: 30, MAI: 102, Source: panel.Observed,
			Vintage: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)},
	}

	csvPath := filepath.Join(dir, "panel.csv")
	require.NoError(t, WritePanelCSV(csvPath, rows))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, panelHeader, got[0])
	assert.Equal(t, "13001", got[1][0])
	assert.Equal(t, "observed", got[1][11])
	assert.Equal(t, "2026-01-15T08:00:00Z", got[1][12])

	jsonPath := filepath.Join(dir, "panel.json")
	require.NoError(t, WritePanelJSON(jsonPath, rows))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded []panel.Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, rows[0].FIPS, decoded[0].FIPS)
	assert.InDelta(t, rows[0].RentPerAcre, decoded[0].RentPerAcre, 0.001)
}
