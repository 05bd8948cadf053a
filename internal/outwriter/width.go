package outwriter

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fatih/color"
	"github.com/huangsam/issuelens/internal/contract"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// barRune draws one unit of a bar.
const barRune = "█"

var (
	titleColor  = color.New(color.Bold)
	sharedColor = color.New(color.FgGreen, color.Bold)

	// barPalette colors bars by key so the same label keeps its color across charts.
	barPalette = []*color.Color{
		color.New(color.FgCyan),
		color.New(color.FgMagenta),
		color.New(color.FgYellow),
		color.New(color.FgGreen),
		color.New(color.FgBlue),
		color.New(color.FgRed),
	}
)

// terminalWidth returns the configured width, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// keyWidth is the widest a key column may be.
func keyWidth(cfg *contract.Config) int {
	return clamp(terminalWidth(cfg)/3, 12, 40)
}

// barWidth is the widest a bar may be after the key, count and share columns.
func barWidth(cfg *contract.Config) int {
	return clamp(terminalWidth(cfg)-keyWidth(cfg)-35, 10, 50)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// truncateKey shortens s to at most width display cells.
func truncateKey(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// bar draws a bar proportional to count out of maxCount, at least one unit for a positive count.
func bar(key string, count, maxCount, width int) string {
	if count <= 0 || maxCount <= 0 {
		return ""
	}
	n := max(count*width/maxCount, 1)
	return colorFor(key).Sprint(strings.Repeat(barRune, n))
}

// colorFor picks a stable palette color for key.
func colorFor(key string) *color.Color {
	return barPalette[xxhash.Sum64String(key)%uint64(len(barPalette))]
}
