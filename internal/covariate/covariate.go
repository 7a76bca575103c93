// Package covariate loads the county-level regressors for rent estimation:
// climate normals, FIA site productivity, NASS land values, TPO harvest
// volumes, and the county boundary table that anchors every FIPS code.
package covariate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Climate holds a county's 30-year normals.
type Climate struct {
	FIPS       string
	TmeanC     float64 // mean annual temperature
	PrecipMM   float64 // annual precipitation
	GSTmeanC   float64 // growing-season (Apr-Sep) temperature
	GSPrecipMM float64 // growing-season precipitation
}

// Site is a county's forest productivity summary aggregated from FIA plots.
type Site struct {
	FIPS      string
	Plots     int
	MeanClass float64 // mean FIA site productivity class, 1 (best) to 7
	MAI       float64 // mean annual increment, cubic ft/acre/yr
}

// Harvest is a county-year removal volume from TPO.
type Harvest struct {
	FIPS     string
	Year     int
	SoftTons float64
	HardTons float64
}

// County is one row of the boundary/FIPS reference table.
type County struct {
	FIPS        string
	Name        string
	State       string
	Lat         float64
	Lon         float64
	ForestAcres float64
}

// Set bundles every covariate table keyed for panel assembly.
type Set struct {
	Counties  map[string]County          // FIPS -> county
	Climate   map[string]Climate         // FIPS -> normals
	Sites     map[string]Site            // FIPS -> productivity
	LandValue map[string]map[int]float64 // state -> year -> $/acre
	Harvest   map[string]map[int]Harvest // FIPS -> year -> removals
	Skipped   map[string]int             // file label -> malformed rows dropped
}

// maiByClass maps FIA site productivity class to the class-interval midpoint
// in cubic ft/acre/yr of potential growth. Class 1 is open-ended above 225;
// class 7 is nonproductive (<20).
var maiByClass = map[int]float64{
	1: 250,
	2: 194.5,
	3: 142,
	4: 102,
	5: 67,
	6: 34.5,
	7: 10,
}

// MAIForClass returns the increment midpoint for an FIA site class, or false
// for a class outside 1-7.
func MAIForClass(class int) (float64, bool) {
	mai, ok := maiByClass[class]
	return mai, ok
}

// Load reads every covariate file under dataDir. The county table is
// required — without it no FIPS can be validated — but the other tables are
// optional and load empty when their file is absent.
func Load(dataDir string) (*Set, error) {
	s := &Set{
		Counties:  map[string]County{},
		Climate:   map[string]Climate{},
		Sites:     map[string]Site{},
		LandValue: map[string]map[int]float64{},
		Harvest:   map[string]map[int]Harvest{},
		Skipped:   map[string]int{},
	}

	if err := s.loadCounties(filepath.Join(dataDir, "counties", "county_fips.csv")); err != nil {
		return nil, err
	}
	if len(s.Counties) == 0 {
		return nil, errors.New("county boundary table is empty or missing")
	}
	if err := s.loadClimate(filepath.Join(dataDir, "climate", "county_normals.csv")); err != nil {
		return nil, err
	}
	if err := s.loadSites(filepath.Join(dataDir, "fia", "site_plots.csv")); err != nil {
		return nil, err
	}
	if err := s.loadLandValues(filepath.Join(dataDir, "nass", "land_values.csv")); err != nil {
		return nil, err
	}
	if err := s.loadHarvest(filepath.Join(dataDir, "tpo", "county_removals.csv")); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) loadCounties(path string) error {
	return s.eachRow(path, "counties", func(get func(string) string) bool {
		fips := get("fips")
		if !ValidFIPS(fips) {
			return false
		}
		lat, err1 := parseFloat(get("lat"))
		lon, err2 := parseFloat(get("lon"))
		acres, err3 := parseFloat(get("forest_acres"))
		if err1 != nil || err2 != nil || err3 != nil || acres < 0 {
			return false
		}
		s.Counties[fips] = County{
			FIPS:        fips,
			Name:        get("name"),
			State:       strings.ToUpper(get("state")),
			Lat:         lat,
			Lon:         lon,
			ForestAcres: acres,
		}
		return true
	})
}

func (s *Set) loadClimate(path string) error {
	return s.eachRow(path, "climate", func(get func(string) string) bool {
		fips := get("fips")
		if !ValidFIPS(fips) {
			return false
		}
		tmean, err1 := parseFloat(get("tmean_c"))
		precip, err2 := parseFloat(get("precip_mm"))
		if err1 != nil || err2 != nil || precip < 0 {
			return false
		}
		c := Climate{FIPS: fips, TmeanC: tmean, PrecipMM: precip}
		// Growing-season columns are optional; fall back to annual values.
		if v, err := parseFloat(get("gs_tmean_c")); err == nil {
			c.GSTmeanC = v
		} else {
			c.GSTmeanC = tmean
		}
		if v, err := parseFloat(get("gs_precip_mm")); err == nil {
			c.GSPrecipMM = v
		} else {
			c.GSPrecipMM = precip
		}
		s.Climate[fips] = c
		return true
	})
}

// loadSites aggregates plot-level FIA rows to county means. Each input row
// is one plot with a site productivity class; the county's MAI is the mean
// of the class midpoints over its plots.
func (s *Set) loadSites(path string) error {
	type agg struct {
		plots    int
		classSum float64
		maiSum   float64
	}
	byCounty := map[string]*agg{}

	err := s.eachRow(path, "fia", func(get func(string) string) bool {
		fips := get("fips")
		if !ValidFIPS(fips) {
			return false
		}
		class, err := strconv.Atoi(get("site_class"))
		if err != nil {
			return false
		}
		mai, ok := MAIForClass(class)
		if !ok {
			return false
		}
		a := byCounty[fips]
		if a == nil {
			a = &agg{}
			byCounty[fips] = a
		}
		a.plots++
		a.classSum += float64(class)
		a.maiSum += mai
		return true
	})
	if err != nil {
		return err
	}

	for fips, a := range byCounty {
		s.Sites[fips] = Site{
			FIPS:      fips,
			Plots:     a.plots,
			MeanClass: a.classSum / float64(a.plots),
			MAI:       a.maiSum / float64(a.plots),
		}
	}
	return nil
}

func (s *Set) loadLandValues(path string) error {
	return s.eachRow(path, "nass", func(get func(string) string) bool {
		state := strings.ToUpper(get("state"))
		year, err1 := strconv.Atoi(get("year"))
		value, err2 := parseFloat(get("value_per_acre"))
		if len(state) != 2 || err1 != nil || err2 != nil || value < 0 {
			return false
		}
		if s.LandValue[state] == nil {
			s.LandValue[state] = map[int]float64{}
		}
		s.LandValue[state][year] = value
		return true
	})
}

func (s *Set) loadHarvest(path string) error {
	return s.eachRow(path, "tpo", func(get func(string) string) bool {
		fips := get("fips")
		if !ValidFIPS(fips) {
			return false
		}
		year, err1 := strconv.Atoi(get("year"))
		soft, err2 := parseFloat(get("softwood_tons"))
		hard, err3 := parseFloat(get("hardwood_tons"))
		if err1 != nil || err2 != nil || err3 != nil || soft < 0 || hard < 0 {
			return false
		}
		if s.Harvest[fips] == nil {
			s.Harvest[fips] = map[int]Harvest{}
		}
		s.Harvest[fips][year] = Harvest{FIPS: fips, Year: year, SoftTons: soft, HardTons: hard}
		return true
	})
}

// eachRow streams a headered CSV, invoking fn per row with a column getter.
// fn returns false for malformed rows, which are counted under label. A
// missing file is treated as empty.
func (s *Set) eachRow(path, label string, fn func(get func(string) string) bool) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, row := range rows[1:] {
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if !fn(get) {
			s.Skipped[label]++
		}
	}
	return nil
}

// ValidFIPS reports whether s is a 5-digit county FIPS code.
func ValidFIPS(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
