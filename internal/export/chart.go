// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package export

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart dimensions.
const (
	ChartWidth  = 6 * vg.Inch
	ChartHeight = 4 * vg.Inch
)

var (
	normalColor = color.RGBA{R: 0x2e, G: 0x9e, B: 0x4f, A: 0xff}
	attackColor = color.RGBA{R: 0xd6, G: 0x2d, B: 0x2d, A: 0xff}
)

// BarChart draws the Normal/Attack packet counts and returns the plot.
func BarChart(normal, attack int, title string) (*plot.Plot, error) {
	if normal < 0 || attack < 0 {
		return nil, fmt.Errorf("negative packet count %d/%d", normal, attack)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Packets"
	p.Y.Min = 0

	width := vg.Points(60)
	normalBar, err := plotter.NewBarChart(plotter.Values{float64(normal)}, width)
	if err != nil {
		return nil, fmt.Errorf("normal bar: %w", err)
	}
	normalBar.Color = normalColor
	normalBar.LineStyle.Width = 0
	normalBar.XMin = 0

	attackBar, err := plotter.NewBarChart(plotter.Values{float64(attack)}, width)
	if err != nil {
		return nil, fmt.Errorf("attack bar: %w", err)
	}
	attackBar.Color = attackColor
	attackBar.LineStyle.Width = 0
	attackBar.XMin = 1

	p.Add(normalBar, attackBar)
	p.NominalX("Normal", "Attack")
	if normal == 0 && attack == 0 {
		p.Y.Max = 1
	}
	return p, nil
}

// WriteChartPNG renders the bar chart as PNG.
func WriteChartPNG(w io.Writer, normal, attack int, title string) error {
	p, err := BarChart(normal, attack, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
