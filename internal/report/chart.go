package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/forestecon/forest-rents/internal/stumpage"
)

type yearAgg struct {
	sum float64
	n   int
}

// TrendChart writes an HTML line chart of mean $/ton by year for a product,
// split into softwood and hardwood series.
func TrendChart(path, product string, recs []stumpage.Record) error {
	soft := map[int]*yearAgg{}
	hard := map[int]*yearAgg{}
	years := map[int]bool{}

	for _, r := range recs {
		if r.Product != product || r.PerTon == nil {
			continue
		}
		bucket := hard
		if isSoftwoodSpecies(r.Species) {
			bucket = soft
		}
		a := bucket[r.Year]
		if a == nil {
			a = &yearAgg{}
			bucket[r.Year] = a
		}
		a.sum += *r.PerTon
		a.n++
		years[r.Year] = true
	}
	if len(years) == 0 {
		return fmt.Errorf("no convertible %s records to chart", product)
	}

	ordered := make([]int, 0, len(years))
	for y := range years {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	labels := make([]string, len(ordered))
	softData := make([]opts.LineData, len(ordered))
	hardData := make([]opts.LineData, len(ordered))
	for i, y := range ordered {
		labels[i] = strconv.Itoa(y)
		softData[i] = meanPoint(soft[y])
		hardData[i] = meanPoint(hard[y])
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Stumpage price trend: %s", product),
			Subtitle: "Mean $/ton across reporting sources",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "$/ton"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Softwood", softData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.AddSeries("Hardwood", hardData,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return line.Render(f)
}

func meanPoint(a *yearAgg) opts.LineData {
	if a == nil || a.n == 0 {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: a.sum / float64(a.n)}
}

func isSoftwoodSpecies(species string) bool {
	s := strings.ToLower(species)
	for _, kw := range []string{"pine", "spruce", "fir", "hemlock", "cedar", "larch", "softwood", "douglas"} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
