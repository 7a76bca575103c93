package covariate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCovariate(t *testing.T, dataDir, sub, file, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, sub)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func writeCountyTable(t *testing.T, dataDir string) {
	writeCovariate(t, dataDir, "counties", "county_fips.csv",
		"fips,name,state,lat,lon,forest_acres\n"+
			"13001,Appling,GA,31.75,-82.29,210000\n"+
			"13005,Bacon,GA,31.55,-82.45,95000\n"+
			"41039,Lane,OR,43.94,-122.87,1600000\n")
}

func TestLoad(t *testing.T) {
	dataDir := t.TempDir()
	writeCountyTable(t, dataDir)
	writeCovariate(t, dataDir, "climate", "county_normals.csv",
		"fips,tmean_c,precip_mm,gs_tmean_c,gs_precip_mm\n"+
			"13001,19.2,1240,24.1,680\n"+
			"41039,11.0,1170,,\n"+
			"999,5.0,800,,\n")
	writeCovariate(t, dataDir, "fia", "site_plots.csv",
		"fips,site_class\n"+
			"13001,3\n"+
			"13001,4\n"+
			"13001,9\n"+
			"41039,1\n")
	writeCovariate(t, dataDir, "nass", "land_values.csv",
		"state,year,value_per_acre\n"+
			"GA,2019,1850\n"+
			"OR,2019,2100\n"+
			"G,2019,100\n")
	writeCovariate(t, dataDir, "tpo", "county_removals.csv",
		"fips,year,softwood_tons,hardwood_tons\n"+
			"13001,2019,120000,30000\n")

	s, err := Load(dataDir)
	require.NoError(t, err)

	t.Run("counties", func(t *testing.T) {
		require.Len(t, s.Counties, 3)
		assert.Equal(t, "GA", s.Counties["13001"].State)
		assert.InDelta(t, 210000, s.Counties["13001"].ForestAcres, 0.001)
	})

	t.Run("climate with growing season fallback", func(t *testing.T) {
		require.Contains(t, s.Climate, "41039")
		c := s.Climate["41039"]
		assert.InDelta(t, 11.0, c.GSTmeanC, 0.001, "missing growing-season column falls back to annual")
		assert.InDelta(t, 24.1, s.Climate["13001"].GSTmeanC, 0.001)
		assert.NotContains(t, s.Climate, "999")
		assert.Equal(t, 1, s.Skipped["climate"])
	})

	t.Run("fia plots aggregate to county MAI", func(t *testing.T) {
		site := s.Sites["13001"]
		assert.Equal(t, 2, site.Plots, "class 9 row is malformed and skipped")
		assert.InDelta(t, 3.5, site.MeanClass, 0.001)
		assert.InDelta(t, 122.0, site.MAI, 0.001) // mean of 142 and 102
		assert.InDelta(t, 250.0, s.Sites["41039"].MAI, 0.001)
		assert.Equal(t, 1, s.Skipped["fia"])
	})

	t.Run("land values keyed state-year", func(t *testing.T) {
		assert.InDelta(t, 1850, s.LandValue["GA"][2019], 0.001)
		assert.Equal(t, 1, s.Skipped["nass"])
	})

	t.Run("harvest", func(t *testing.T) {
		h := s.Harvest["13001"][2019]
		assert.InDelta(t, 120000, h.SoftTons, 0.001)
		assert.InDelta(t, 30000, h.HardTons, 0.001)
	})
}

func TestLoadRequiresCountyTable(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "county boundary table")
}

func TestValidFIPS(t *testing.T) {
	assert.True(t, ValidFIPS("13001"))
	assert.False(t, ValidFIPS("1300"))
	assert.False(t, ValidFIPS("130011"))
	assert.False(t, ValidFIPS("13a01"))
	assert.False(t, ValidFIPS(""))
}

func TestMAIForClass(t *testing.T) {
	for class, want := range map[int]float64{1: 250, 2: 194.5, 3: 142, 4: 102, 5: 67, 6: 34.5, 7: 10} {
		got, ok := MAIForClass(class)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := MAIForClass(0)
	assert.False(t, ok)
	_, ok = MAIForClass(8)
	assert.False(t, ok)
}
