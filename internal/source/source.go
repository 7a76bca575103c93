// Package source loads per-agency stumpage price files into the unified
// schema.
//
// Each state agency publishes on its own cadence with its own regional
// breakdown and units; the loaders here capture those quirks so that the
// harmonize stage can treat every source uniformly. A missing source file is
// not an error — coverage accretes over the years as agencies publish — so a
// loader for an absent file reports zero records.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forestecon/forest-rents/internal/stumpage"
)

// Loader reads one agency's parsed price file.
type Loader struct {
	Name  string // human-readable source name, e.g. "Georgia"
	State string // two-letter state code
	Load  func(dataDir string) ([]stumpage.Record, error)
}

// All returns every registered source loader, state agencies first and the
// USFS PNW administered-price integrator last.
func All() []Loader {
	return []Loader{
		{Name: "Michigan", State: "MI", Load: loadMichigan},
		{Name: "Minnesota", State: "MN", Load: loadMinnesota},
		{Name: "Wisconsin", State: "WI", Load: loadWisconsin},
		{Name: "New York", State: "NY", Load: loadNewYork},
		{Name: "Pennsylvania", State: "PA", Load: loadPennsylvania},
		{Name: "Vermont", State: "VT", Load: loadVermont},
		{Name: "Maine", State: "ME", Load: loadMaine},
		{Name: "Alabama", State: "AL", Load: loadAlabama},
		{Name: "Arkansas", State: "AR", Load: loadArkansas},
		{Name: "Florida", State: "FL", Load: loadFlorida},
		{Name: "Georgia", State: "GA", Load: loadGeorgia},
		{Name: "Louisiana", State: "LA", Load: loadLouisiana},
		{Name: "Mississippi", State: "MS", Load: loadMississippi},
		{Name: "South Carolina", State: "SC", Load: loadSouthCarolina},
		{Name: "Texas", State: "TX", Load: loadTexas},
		{Name: "West Virginia", State: "WV", Load: loadWestVirginia},
		{Name: "USFS PNW", State: "USFS", Load: loadUSFSPNW},
	}
}

// table is a parsed CSV with a header index, in the style of the agency
// files: one header row, string cells, ragged rows tolerated.
type table struct {
	header map[string]int
	rows   [][]string
}

// readTable opens and parses a source CSV. A missing file returns (nil, nil).
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) < 2 {
		return nil, nil
	}

	header := make(map[string]int, len(all[0]))
	for i, h := range all[0] {
		header[strings.TrimSpace(h)] = i
	}
	return &table{header: header, rows: all[1:]}, nil
}

func (t *table) has(col string) bool {
	_, ok := t.header[col]
	return ok
}

// get returns the trimmed cell value for a column, or "" when the column is
// absent or the row is short.
func (t *table) get(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// getFloat parses a cell as a float, stripping $ and thousands separators.
// Returns nil for empty cells, censoring markers ("**"), and parse failures.
func (t *table) getFloat(row []string, col string) *float64 {
	s := t.get(row, col)
	if s == "" || s == "**" {
		return nil
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (t *table) getInt(row []string, col string) *int {
	v := t.getFloat(row, col)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// year parses the year column; rows without a valid year are unusable.
func (t *table) year(row []string) (int, bool) {
	n := t.getInt(row, "year")
	if n == nil || *n < 1900 || *n > 2100 {
		return 0, false
	}
	return *n, true
}

func sourcePath(dataDir, agency, file string) string {
	return filepath.Join(dataDir, agency, file)
}

// isDigits reports whether s is a non-empty string of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
