package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUSFSPNW(t *testing.T) {
	dataDir := t.TempDir()
	writeFixture(t, dataDir, "usfs_pnw", "usfs_pnw_stumpage_combined.csv",
		"year,region,subregion,price_per_mbf,table\n"+
			"2015,Montana_Idaho,Montana_Idaho,180.00,Table 5\n"+
			"2015,Washington_Oregon,Washington,320.00,Table 5\n"+
			"2016,Washington_Oregon,Washington,,Table 5\n")
	writeFixture(t, dataDir, "usfs_pnw", "usfs_pnw_species_stumpage.csv",
		"year,region,species,price_per_mbf,table\n"+
			"2015,Pacific_Southwest_CA,Douglas-fir,410.00,Table 7\n")

	recs, err := loadUSFSPNW(dataDir)
	require.NoError(t, err)
	require.Len(t, recs, 3, "row with no price is dropped")

	byState := map[string]int{}
	for _, r := range recs {
		byState[r.Source]++
		assert.Equal(t, "$/MBF", r.Unit)
		assert.Equal(t, "sawtimber", r.Product)
		assert.Contains(t, r.Notes, "Administered pricing, not market")
		require.NotNil(t, r.Factor)
		assert.Equal(t, 4.0, *r.Factor)
	}
	assert.Equal(t, 1, byState["MT_ID"], "combined subregion keeps the combined code")
	assert.Equal(t, 1, byState["WA"], "specific subregion wins over the region")
	assert.Equal(t, 1, byState["CA"])

	for _, r := range recs {
		if r.Source == "MT_ID" {
			require.NotNil(t, r.PerTon)
			assert.InDelta(t, 45.0, *r.PerTon, 0.001) // 180 / 4.0
			assert.Equal(t, "Statewide", r.Region)
		}
		if r.Source == "CA" {
			assert.Equal(t, "douglas_fir", r.Species)
		}
	}
}

func TestDedupeUSFSKeepsLastRow(t *testing.T) {
	dataDir := t.TempDir()
	// Overlapping publications produce duplicate series rows; the later row
	// (the species-file pass runs last) wins.
	writeFixture(t, dataDir, "usfs_pnw", "usfs_pnw_species_stumpage.csv",
		"year,region,species,price_per_mbf,table\n"+
			"2015,Pacific_Southwest_CA,All species,200.00,Table 5\n"+
			"2015,Pacific_Southwest_CA,All species,240.00,Table 7\n")

	recs, err := loadUSFSPNW(dataDir)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].PriceAvg)
	assert.InDelta(t, 240.0, *recs[0].PriceAvg, 0.001)
}
