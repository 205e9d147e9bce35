package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ironsheep/marker-drift/internal/analysis"
	apperrors "github.com/ironsheep/marker-drift/internal/errors"
)

const (
	plotWidth  = 1024
	plotHeight = 600
	dotWidth   = 4
)

var plotPage = template.Must(template.New("plot").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-top: 1em; }
td, th { padding: 2px 10px; text-align: right; }
td.image { text-align: left; }
.swatch { display: inline-block; width: 12px; height: 12px; margin-right: 6px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Generated {{.Generated}}. Points are per-image mean corner drift; bars span min to max.</p>
{{.SVG}}
<table>
<tr><th>image</th><th>quality</th><th>mean</th><th>min</th><th>max</th></tr>
{{range .Rows}}<tr><td class="image"><span class="swatch" style="background:{{.Color}}"></span>{{.Image}}</td><td>{{printf "%.2f" .Quality}}</td><td>{{printf "%.5f" .Mean}}</td><td>{{printf "%.5f" .Min}}</td><td>{{printf "%.5f" .Max}}</td></tr>
{{end}}</table>
</body>
</html>
`))

type plotRow struct {
	analysis.ScatterRecord
	Color template.CSS
}

type plotData struct {
	Title     string
	Generated string
	SVG       template.HTML
	Rows      []plotRow
}

// SavePlot renders the scatter records to dir/scatter_<timestamp>.html and
// returns the path. With no records there is nothing to draw: the returned
// path is empty and no file is written.
func SavePlot(dir string, now time.Time, records []analysis.ScatterRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	palette := imagePalette(records)
	svg, err := renderScatter(records, palette)
	if err != nil {
		return "", apperrors.NewReportError("", "failed to render scatter chart", err)
	}

	data := plotData{
		Title:     "Corner drift by JPEG quality",
		Generated: now.Format(time.RFC1123),
		SVG:       template.HTML(svg),
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, plotRow{
			ScatterRecord: rec,
			Color:         template.CSS(palette[rec.Image].Hex()),
		})
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.NewReportError(dir, "failed to create output directory", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("scatter_%s.html", now.Format(TimestampFormat)))

	var buf bytes.Buffer
	if err := plotPage.Execute(&buf, data); err != nil {
		return "", apperrors.NewReportError(path, "failed to render plot page", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", apperrors.NewReportError(path, "failed to write plot", err)
	}
	return path, nil
}

// imagePalette assigns each distinct image an evenly spaced hue, in sorted
// image order so colours are stable between runs over the same files.
func imagePalette(records []analysis.ScatterRecord) map[string]colorful.Color {
	seen := make(map[string]bool)
	var images []string
	for _, rec := range records {
		if !seen[rec.Image] {
			seen[rec.Image] = true
			images = append(images, rec.Image)
		}
	}
	sort.Strings(images)

	palette := make(map[string]colorful.Color, len(images))
	for i, name := range images {
		hue := 360 * float64(i) / float64(len(images))
		palette[name] = colorful.Hcl(hue, 0.6, 0.55).Clamped()
	}
	return palette
}

func renderScatter(records []analysis.ScatterRecord, palette map[string]colorful.Color) ([]byte, error) {
	var series []chart.Series

	// Error bars first so the mean dots are drawn on top.
	for _, rec := range records {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{rec.Quality, rec.Quality},
			YValues: []float64{rec.Min, rec.Max},
			Style: chart.Style{
				StrokeColor: toDrawing(palette[rec.Image]).WithAlpha(160),
				StrokeWidth: 1,
			},
		})
	}

	byImage := make(map[string]*chart.ContinuousSeries)
	var order []string
	for _, rec := range records {
		s, ok := byImage[rec.Image]
		if !ok {
			s = &chart.ContinuousSeries{
				Name: rec.Image,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    dotWidth,
					DotColor:    toDrawing(palette[rec.Image]),
				},
			}
			byImage[rec.Image] = s
			order = append(order, rec.Image)
		}
		s.XValues = append(s.XValues, rec.Quality)
		s.YValues = append(s.YValues, rec.Mean)
	}
	for _, name := range order {
		series = append(series, *byImage[name])
	}

	graph := chart.Chart{
		Width:  plotWidth,
		Height: plotHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 20, Right: 30, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "JPEG quality",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
			Ticks: qualityTicks(),
		},
		YAxis: chart.YAxis{
			Name:  "corner drift (px)",
			Range: &chart.ContinuousRange{Min: 0, Max: yCeiling(records)},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func qualityTicks() []chart.Tick {
	ticks := []chart.Tick{{Value: 0, Label: "0.0"}}
	for _, q := range analysis.QualityLevels() {
		ticks = append(ticks, chart.Tick{Value: q, Label: fmt.Sprintf("%.1f", q)})
	}
	return append(ticks, chart.Tick{Value: 1, Label: "1.0"})
}

// yCeiling leaves headroom above the largest max and never collapses the
// range to zero, which the chart renderer rejects.
func yCeiling(records []analysis.ScatterRecord) float64 {
	top := 0.0
	for _, rec := range records {
		top = math.Max(top, rec.Max)
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}

func toDrawing(c colorful.Color) drawing.Color {
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
