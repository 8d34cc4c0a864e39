// Package render draws decoded capture spectra for visual inspection.
//
// Rendering is a capability handed to the acquisition flow, not ambient
// state: callers construct a Renderer and inject it, so the decode path
// stays free of any global canvas.
package render

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/dsptools/iq"
)

// Renderer displays or stores one decoded spectrum.
type Renderer interface {
	Render(s *iq.Spectrum) error
}

// PNG renders the three spectrum series (real, imaginary, magnitude over
// frequency) as vertically stacked panels with a shared x-axis, written as
// a PNG file.
type PNG struct {
	// Path is the output file path.
	Path string
	// Width and Height of the full image; zero values pick defaults.
	Width  vg.Length
	Height vg.Length
}

// Render writes the three-panel plot to r.Path.
func (r *PNG) Render(s *iq.Spectrum) error {
	if s == nil || s.Len() == 0 {
		return fmt.Errorf("render: empty spectrum")
	}

	width := r.Width
	if width == 0 {
		width = 20 * vg.Centimeter
	}
	height := r.Height
	if height == 0 {
		height = 18 * vg.Centimeter
	}

	panels := []struct {
		label string
		data  []float64
	}{
		{"Real", s.Re},
		{"Imag", s.Im},
		{"Magnitude", s.Mag},
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p := plot.New()
		p.Y.Label.Text = panel.label
		if i == len(panels)-1 {
			p.X.Label.Text = "Frequency (Hz)"
		}
		p.X.Min = s.Freq[0]
		p.X.Max = s.Freq[s.Len()-1]

		line, err := plotter.NewLine(seriesXY(s.Freq, panel.data))
		if err != nil {
			return fmt.Errorf("render: %s line: %w", panel.label, err)
		}
		p.Add(line)
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(panels),
		Cols: 1,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", r.Path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("render: write %s: %w", r.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("render: close %s: %w", r.Path, err)
	}
	return nil
}

func seriesXY(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range xys {
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}
	return xys
}
