// Command gfanalysis builds a field descriptor, exercises its arithmetic
// backend and polynomial factorizer, and renders Cayley-table heatmaps
// plus timing summaries to a standalone HTML report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"galoisfield/field"
	"galoisfield/poly"
	"galoisfield/prof"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type fieldReport struct {
	Descriptor     string            `json:"descriptor"`
	Kind           string            `json:"kind"`
	Order          uint64            `json:"order"`
	Characteristic uint64            `json:"characteristic"`
	Degree         int               `json:"degree"`
	Irreducible    []uint64          `json:"irreducible_poly,omitempty"`
	Primitive      *uint64           `json:"primitive_element,omitempty"`
	Tables         bool              `json:"lookup_tables"`
	OrderCounts    map[uint64]int    `json:"element_order_counts,omitempty"`
	Timings        []timingSummary   `json:"timings"`
	Factored       []factoredExample `json:"factored,omitempty"`
}

type timingSummary struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

type factoredExample struct {
	Input   string   `json:"input"`
	Scalar  uint64   `json:"scalar"`
	Factors []string `json:"factors"`
}

func parseChi(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]uint64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("coefficient %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func buildField(p uint64, m int, chi []uint64, group uint64) (*field.Field, error) {
	if group > 0 {
		return field.GroupModN(group)
	}
	if chi != nil {
		return field.ExtensionWithPoly(p, m, chi)
	}
	if m > 1 {
		return field.Extension(p, m)
	}
	return field.Prime(p)
}

// cayleyHeatmap renders the full operation table of a small field. Cell
// (x, y) holds the element code of op(x, y).
func cayleyHeatmap(title string, f *field.Field, op func(a, b uint64) uint64) *charts.HeatMap {
	n := int(f.Order())
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	cells := make([]opts.HeatMapData, 0, n*n)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			cells = append(cells, opts.HeatMapData{Value: []interface{}{a, b, op(uint64(a), uint64(b))}})
		}
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: f.String()}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "700px"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: labels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(n - 1),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	hm.AddSeries("cayley", cells)
	return hm
}

func toBarItems(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func orderBarChart(f *field.Field, counts map[uint64]int) *charts.Bar {
	orders := make([]uint64, 0, len(counts))
	for o := range counts {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i] < orders[j] })
	labels := make([]string, len(orders))
	vals := make([]float64, len(orders))
	for i, o := range orders {
		labels[i] = strconv.FormatUint(o, 10)
		vals[i] = float64(counts[o])
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "multiplicative order distribution", Subtitle: f.String()}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("elements", toBarItems(vals)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func timingBarChart(sums []timingSummary) *charts.Bar {
	labels := make([]string, len(sums))
	vals := make([]float64, len(sums))
	for i, s := range sums {
		labels[i] = s.Label
		vals[i] = s.TotalMS
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "timing by step", Subtitle: "total milliseconds"}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "500px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("total ms", toBarItems(vals)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func elementOrderCounts(f *field.Field) map[uint64]int {
	counts := make(map[uint64]int)
	for a := uint64(1); a < f.Order(); a++ {
		ord, err := f.ElementOrder(a)
		if err != nil {
			// group elements without inverses carry no order
			continue
		}
		counts[ord]++
	}
	return counts
}

func randPolyCoeffs(f *field.Field, deg int, r *rand.Rand) []uint64 {
	c := make([]uint64, deg+1)
	for i := range c {
		c[i] = uint64(r.Int63()) % f.Order()
	}
	if c[deg] == 0 {
		c[deg] = 1
	}
	return c
}

func main() {
	p := flag.Uint64("p", 7, "field characteristic")
	m := flag.Int("m", 1, "extension degree")
	chiStr := flag.String("chi", "", "explicit irreducible polynomial, ascending comma-separated coefficients")
	group := flag.Uint64("group", 0, "build the group of integers mod n instead of a field")
	factors := flag.Int("factors", 8, "random polynomials to factor for timing")
	deg := flag.Int("deg", 12, "degree of the random polynomials")
	seed := flag.Int64("seed", 1, "seed for the random polynomial stream")
	outDir := flag.String("out", "gf_reports", "output directory for reports")
	flag.Parse()

	chi, err := parseChi(*chiStr)
	if err != nil {
		log.Fatalf("parse chi: %v", err)
	}
	f, err := buildField(*p, *m, chi, *group)
	if err != nil {
		log.Fatalf("build descriptor: %v", err)
	}
	log.Printf("[gfanalysis] descriptor %s (order %d)", f, f.Order())

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	report := fieldReport{
		Descriptor:     f.String(),
		Kind:           f.Kind().String(),
		Order:          f.Order(),
		Characteristic: f.Characteristic(),
		Degree:         f.Degree(),
	}
	if f.IsExtensionField() {
		report.Irreducible = f.IrreduciblePoly()
	}
	if alpha, err := f.PrimitiveElement(); err == nil {
		report.Primitive = &alpha
	}

	page := components.NewPage()

	if f.IsField() && f.Order() <= field.TableThreshold {
		if err := f.BuildTables(); err != nil {
			log.Fatalf("build tables: %v", err)
		}
		report.Tables = true
		page.AddCharts(
			cayleyHeatmap("addition table", f, f.Add),
			cayleyHeatmap("multiplication table", f, f.Mul),
		)
	}

	if f.Order() <= 1<<16 {
		counts := elementOrderCounts(f)
		report.OrderCounts = counts
		page.AddCharts(orderBarChart(f, counts))
	}

	if f.IsField() && *factors > 0 {
		r := rand.New(rand.NewSource(*seed))
		for i := 0; i < *factors; i++ {
			pl := poly.New(f, randPolyCoeffs(f, *deg, r)...)
			fz, err := pl.Factor(poly.WithSeed([]byte(fmt.Sprintf("gfanalysis-%d-%d", *seed, i))))
			if err != nil {
				log.Fatalf("factor %s: %v", pl, err)
			}
			ex := factoredExample{Input: pl.String(), Scalar: fz.Scalar}
			for _, pair := range fz.Factors {
				ex.Factors = append(ex.Factors, fmt.Sprintf("(%s)^%d", pair.Poly, pair.Multiplicity))
			}
			report.Factored = append(report.Factored, ex)
		}
	}

	for _, s := range prof.Summarize(prof.SnapshotAndReset()) {
		report.Timings = append(report.Timings, timingSummary{
			Label:   s.Label,
			Count:   s.Count,
			TotalMS: float64(s.Total) / float64(time.Millisecond),
			MaxMS:   float64(s.Max) / float64(time.Millisecond),
		})
	}
	if len(report.Timings) > 0 {
		page.AddCharts(timingBarChart(report.Timings))
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("field_report_%s.json", ts))
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
		log.Fatalf("save report: %v", err)
	}

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("field_charts_%s.html", ts))
	out, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer out.Close()
	if err := page.Render(out); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Charts page:", htmlPath)
	fmt.Println("Field report:", jsonPath)
}
