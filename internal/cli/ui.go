package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
)

// =============================================================================
// Palette and styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Exported styles are shared with the interactive builder.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

// marker is a colored status glyph that prefixes a line of output.
type marker struct {
	icon  string
	style lipgloss.Style
	text  lipgloss.Style
}

var (
	markSuccess = marker{iconSuccess, lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorYellow), StyleWarning}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

func (m marker) print(format string, args ...any) {
	fmt.Println(m.style.Render(m.icon) + " " + m.text.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// Status output
// =============================================================================

func printSuccess(format string, args ...any) { markSuccess.print(format, args...) }
func printWarning(format string, args ...any) { markWarning.print(format, args...) }
func printInfo(format string, args ...any)    { markInfo.print(format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Tables
// =============================================================================

// partsTable renders parts with their display weight and price.
func partsTable(parts []catalog.Part) string {
	rows := make([][]string, 0, len(parts))
	for _, p := range parts {
		key := p.Slug
		if key == "" {
			key = StyleDim.Render("–")
		}
		rows = append(rows, []string{
			p.Category.Title(), p.Manufacturer, p.Model, key,
			builder.FormatWeight(p.Weight), builder.FormatPrice(p),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Category", "Manufacturer", "Model", "Slug", "Weight", "Price").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col >= 4 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// layerSummary lists the selected parts bottom to top followed by totals.
func layerSummary(plan builder.Plan) string {
	var b strings.Builder
	for _, l := range plan.Layers {
		fmt.Fprintf(&b, "%s %-16s %s %s\n",
			StyleDim.Render(fmt.Sprintf("z%-3d", l.ZIndex)),
			l.Category.Title(),
			StyleValue.Render(l.Part.Name()),
			StyleDim.Render("("+l.Tier.String()+")"))
	}
	fmt.Fprintf(&b, "%s %s   %s %s",
		StyleDim.Render("Weight"), StyleHighlight.Render(plan.Totals.WeightText()),
		StyleDim.Render("Price"), StyleHighlight.Render(plan.Totals.PriceText()))
	return b.String()
}
