// Package chart draws the report series as PNG or SVG images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"expenses/internal/core"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrNoData is returned when a series has nothing to draw.
var ErrNoData = errors.New("no data to chart")

var (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch

	lineColor = color.RGBA{R: 65, G: 105, B: 225, A: 255}
	fillColor = color.RGBA{R: 173, G: 216, B: 230, A: 80}
	barColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, SVG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType returns the MIME type of images in format f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Monthly draws daily spending for one month, with ticks only on days that
// have spending.
func Monthly(w io.Writer, series []core.DayTotal, month, year int, format Format) error {
	if len(series) == 0 {
		return ErrNoData
	}
	p := newPlot(fmt.Sprintf("Daily Spending - %02d/%d", month, year), "Day of Month", "Amount Spent (USD)")

	xys := make(plotter.XYs, len(series))
	ticks := make([]plot.Tick, len(series))
	for i, d := range series {
		xys[i].X = float64(d.Day)
		xys[i].Y = d.Amount.InexactFloat64()
		ticks[i] = plot.Tick{Value: float64(d.Day), Label: strconv.Itoa(d.Day)}
	}

	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("monthly line: %w", err)
	}
	line.Color = lineColor
	points.Color = lineColor
	p.Add(line, points)
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4

	return save(p, w, format)
}

// Categories draws one horizontal bar per category, smallest at the bottom.
func Categories(w io.Writer, totals []core.CategoryTotal, format Format) error {
	if len(totals) == 0 {
		return ErrNoData
	}
	p := newPlot("Total Spending per Category", "Amount Spent (USD)", "Category")

	values := make(plotter.Values, len(totals))
	names := make([]string, len(totals))
	for i, c := range totals {
		values[i] = c.Amount.InexactFloat64()
		names[i] = c.Category
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("category bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)

	return save(p, w, format)
}

// Cumulative draws the running total over time as a filled line.
func Cumulative(w io.Writer, points []core.CumulativePoint, format Format) error {
	if len(points) == 0 {
		return ErrNoData
	}
	p := newPlot("Cumulative Spending Over Time", "Date", "Total Amount Spent (USD)")

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = pt.Total.InexactFloat64()
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("cumulative line: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(2)
	line.FillColor = fillColor
	p.Add(line)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.X.Tick.Label.Rotation = math.Pi / 4

	return save(p, w, format)
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

func save(p *plot.Plot, w io.Writer, format Format) error {
	wt, err := p.WriterTo(width, height, string(format))
	if err != nil {
		return fmt.Errorf("prepare %s canvas: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s chart: %w", format, err)
	}
	return nil
}
