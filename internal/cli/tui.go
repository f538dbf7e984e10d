package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bikebuilder/pkg/builder"
	"github.com/matzehuels/bikebuilder/pkg/catalog"
	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listChosenStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
	sidebarStyle      = lipgloss.NewStyle().PaddingRight(2).
				Border(lipgloss.NormalBorder(), false, true, false, false).
				BorderForeground(colorDim)
)

// =============================================================================
// BuildModel - Interactive bike builder
// =============================================================================

// BuildModel is the bubbletea model for the interactive builder. It drives a
// single [builder.Session]: pick a part for the current category, advance
// once a part is chosen, or jump back and forth to revise any choice.
type BuildModel struct {
	Session *builder.Session
	Saved   bool // the user finished with "w"

	manufacturers []string // filter choices; index 0 is "all"
	mfIdx         int
	search        string
	searching     bool
	jumping       bool     // choosing a category with "g"
	jumpIdx       int

	candidates []catalog.Part
	cursor     int
	offset     int
	height     int
	status     string
	statusErr  bool
}

// NewBuildModel creates a builder over sess.
func NewBuildModel(sess *builder.Session) BuildModel {
	m := BuildModel{
		Session:       sess,
		manufacturers: append([]string{catalog.AllManufacturers}, sess.Catalog().Manufacturers()...),
		height:        12,
	}
	m.refresh()
	return m
}

func (m BuildModel) manufacturer() string { return m.manufacturers[m.mfIdx] }

// refresh reloads candidates for the current category and filters.
func (m *BuildModel) refresh() {
	parts, err := m.Session.Candidates(m.manufacturer(), m.search)
	if err != nil {
		m.setStatus(err)
		parts = nil
	}
	m.candidates = parts
	m.cursor, m.offset = 0, 0
	if p, ok := m.Session.Selected(m.Session.Current()); ok {
		if i := slices.IndexFunc(parts, func(c catalog.Part) bool { return c.Key() == p.Key() }); i >= 0 {
			m.cursor = i
			m.scroll()
		}
	}
}

func (m *BuildModel) setStatus(err error) {
	m.status, m.statusErr = errors.UserMessage(err), true
}

func (m *BuildModel) setInfo(format string, args ...any) {
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
}

func (m *BuildModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m BuildModel) Init() tea.Cmd {
	return nil
}

func (m BuildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.jumping {
			return m.updateJump(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "w":
			m.Saved = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.candidates)-1 {
				m.cursor++
				m.scroll()
			}
		case "enter", " ":
			if len(m.candidates) == 0 {
				return m, nil
			}
			p := m.candidates[m.cursor]
			if err := m.Session.Select(p); err != nil {
				m.setStatus(err)
				return m, nil
			}
			m.setInfo("Selected %s", p.Name())
		case "right", "tab", "n":
			if err := m.Session.Advance(); err != nil {
				m.setStatus(err)
				return m, nil
			}
			m.search = ""
			m.refresh()
			m.setInfo("%s", m.Session.Current().Title())
		case "left", "shift+tab", "p":
			if i := m.Session.Current().Index(); i > 0 {
				m.jumpTo(m.Session.Categories()[i-1])
			}
		case "g":
			m.jumping = true
			m.jumpIdx = m.Session.Current().Index()
		case "m":
			m.mfIdx = (m.mfIdx + 1) % len(m.manufacturers)
			m.refresh()
		case "/":
			m.searching = true
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
		m.scroll()
	}
	return m, nil
}

// jumpTo moves to any category; jumps are never gated.
func (m *BuildModel) jumpTo(c catalog.Category) {
	if err := m.Session.JumpTo(c); err != nil {
		m.setStatus(err)
		return
	}
	m.search = ""
	m.refresh()
	m.setInfo("%s", m.Session.Current().Title())
}

func (m BuildModel) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	seq := m.Session.Categories()
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "g", "q":
		m.jumping = false
	case "up", "k":
		m.jumpIdx = (m.jumpIdx + len(seq) - 1) % len(seq)
	case "down", "j":
		m.jumpIdx = (m.jumpIdx + 1) % len(seq)
	case "enter", " ":
		m.jumping = false
		m.jumpTo(seq[m.jumpIdx])
	}
	return m, nil
}

func (m BuildModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
	case tea.KeyBackspace:
		if r := []rune(m.search); len(r) > 0 {
			m.search = string(r[:len(r)-1])
			m.refresh()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.search += string(msg.Runes)
		m.refresh()
	}
	return m, nil
}

func (m BuildModel) View() string {
	plan := m.Session.Plan()

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Step %d/%d · %s", plan.Index+1, plan.Count, plan.Current.Title())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("manufacturer: %s   search: %s", m.manufacturer(), m.searchLabel())))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.sidebar(plan)),
		"  ",
		m.candidateList()))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		listDimStyle.Render("Weight"), StyleHighlight.Render(plan.Totals.WeightText()),
		listDimStyle.Render("Price"), StyleHighlight.Render(plan.Totals.PriceText())))
	if m.status != "" {
		if m.statusErr {
			b.WriteString(statusErrStyle.Render(iconError+" "+m.status) + "\n")
		} else {
			b.WriteString(StyleSuccess.Render(iconSuccess+" "+m.status) + "\n")
		}
	}
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ select  → next  ← back  g jump  m maker  / search  w finish  q quit"))
	return b.String()
}

func (m BuildModel) searchLabel() string {
	s := m.search
	if m.searching {
		s += "▏"
	}
	if s == "" {
		return "–"
	}
	return s
}

func (m BuildModel) sidebar(plan builder.Plan) string {
	var b strings.Builder
	for i, c := range m.Session.Categories() {
		mark := "  "
		if _, ok := m.Session.Selected(c); ok {
			mark = listChosenStyle.Render("✓ ")
		}
		name := c.Title()
		if m.jumping && i == m.jumpIdx {
			name += " ◂"
		}
		if c == plan.Current {
			b.WriteString(mark + listSelectedStyle.Render("▸ "+name) + "\n")
		} else {
			b.WriteString(mark + listNormalStyle.Render("  "+name) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m BuildModel) candidateList() string {
	if len(m.candidates) == 0 {
		return listDimStyle.Render("no parts match")
	}
	chosen, _ := m.Session.Selected(m.Session.Current())

	var b strings.Builder
	end := min(m.offset+m.height, len(m.candidates))
	for i := m.offset; i < end; i++ {
		p := m.candidates[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-36s %8s %10s", cursor, p.Name(), builder.FormatWeight(p.Weight), builder.FormatPrice(p))
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case p.Key() == chosen.Key() && chosen.Category != "":
			b.WriteString(listChosenStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.candidates))))
	return b.String()
}
