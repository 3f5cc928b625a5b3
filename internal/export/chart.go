package export

import (
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultChartColumns are the species plotted by default. C is left out: it
// starts orders of magnitude above the rest and would flatten them.
var DefaultChartColumns = []string{
	"AParticles", "BParticles", "PParticles",
	"AjParticles", "BjParticles", "CjParticles", "DParticles",
}

var chartPalette = []drawing.Color{
	chart.ColorBlue, chart.ColorRed, chart.ColorGreen, {R: 255, G: 165, B: 0, A: 255},
	{R: 128, G: 0, B: 128, A: 255}, {R: 0, G: 139, B: 139, A: 255}, chart.ColorBlack,
}

// RenderMeansChart draws the mean count of each column against the mean
// time and writes it as PNG.
func RenderMeansChart(w io.Writer, s *Summary, columns []string) error {
	if len(columns) == 0 {
		columns = DefaultChartColumns
	}
	x := s.Mean["time"]
	if len(x) < 2 {
		return fmt.Errorf("chart needs at least two steps, got %d", len(x))
	}

	series := make([]chart.Series, 0, len(columns))
	for i, name := range columns {
		y, ok := s.Mean[name]
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: chartPalette[i%len(chartPalette)],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("ensemble means (n=%d)", s.Samples),
		Width:  1024,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "time",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "particles",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// RenderMeansChartFile renders the default chart into path.
func RenderMeansChartFile(path string, s *Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return RenderMeansChart(f, s, nil)
}
