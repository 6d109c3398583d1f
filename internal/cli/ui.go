package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/quadmesh/quadgen"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, styleWarning.Render(iconWarning)+" "+styleWarning.Render(msg))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, "  "+styleKey.Render(key)+" "+value)
}

// printSummary prints grid statistics and warnings of res.
func printSummary(w io.Writer, res *quadgen.Result) {
	g := res.Final
	fmt.Fprintln(w, styleTitle.Render("Grid"))
	printKeyValue(w, "run", styleDim.Render(res.RunID))
	printKeyValue(w, "nodes", styleNumber.Render(fmt.Sprint(g.NumNodes())))
	printKeyValue(w, "cells", styleNumber.Render(fmt.Sprint(len(g.CellIDs()))))
	if len(res.Cells) > 0 {
		printKeyValue(w, "polygon cells", styleNumber.Render(fmt.Sprint(len(res.Cells))))
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range g.CellIDs() {
		a := g.CellArea(c)
		lo, hi = math.Min(lo, a), math.Max(hi, a)
	}
	if len(g.CellIDs()) > 0 {
		printKeyValue(w, "cell area", styleValue.Render(fmt.Sprintf("%.4g … %.4g", lo, hi)))
	}

	for _, wn := range res.Warnings {
		printWarning(w, wn.String())
	}
}
