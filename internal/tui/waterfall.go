// Package tui renders the rolling spectrogram as colored terminal
// columns with a pitch-labeled frequency axis down the left margin.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"spectro/internal/spectro"
)

const (
	marginWidth = 14 // left margin reserved for axis labels
	frameRate   = 33 * time.Millisecond
)

// Waterfall is a Bubble Tea model that pulls engine snapshots at
// ~30 Hz and paints them newest-right, like the source scrolling left.
type Waterfall struct {
	engine  *spectro.Engine
	minFreq float64
	maxFreq float64
	width   int
	height  int
}

// New builds a waterfall view over the given engine and axis range.
func New(engine *spectro.Engine, minFreq, maxFreq float64) Waterfall {
	return Waterfall{engine: engine, minFreq: minFreq, maxFreq: maxFreq}
}

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Waterfall) Init() tea.Cmd {
	return nextFrame()
}

func (m Waterfall) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case frameMsg:
		return m, nextFrame()
	}
	return m, nil
}

func (m Waterfall) View() string {
	rows := m.height - 2
	cols := m.width - marginWidth
	if rows < 4 || cols < 4 {
		return "window too small"
	}

	labels := m.engine.AxisLabels(m.minFreq, m.maxFreq, float64(rows))
	slices := m.engine.Slices()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("spectro | %d slices buffered, q to quit\n", len(slices)))
	sb.WriteString(RenderFrame(slices, labels, cols, rows))
	return sb.String()
}

// RenderFrame draws slices as one terminal column each, oldest left,
// with axis labels right-aligned in the margin. Labels must be planned
// for a pixel height equal to rows. Pure: also used by the offline
// render command.
func RenderFrame(slices []spectro.Slice, labels []spectro.Label, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	if len(slices) > cols {
		slices = slices[len(slices)-cols:]
	}

	labelFor := make(map[int]string, len(labels))
	for _, l := range labels {
		row := int(l.Y)
		if row >= 0 && row < rows {
			labelFor[row] = l.Text
		}
	}

	// One winning color per terminal cell: the brightest slice cell
	// that lands in the bucket.
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, len(slices))
	}
	for col, s := range slices {
		bright := make([]int, rows)
		for i := range bright {
			bright[i] = -1
		}
		for _, c := range s.Cells {
			row := int(c.Y / float64(s.Height) * float64(rows))
			if row < 0 || row >= rows {
				continue
			}
			lum := int(c.Color.R) + int(c.Color.G) + int(c.Color.B)
			if lum <= bright[row] {
				continue
			}
			bright[row] = lum
			hex := fmt.Sprintf("#%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B)
			grid[row][col] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("█")
		}
	}

	var sb strings.Builder
	for r := range rows {
		if text, ok := labelFor[r]; ok {
			sb.WriteString(fmt.Sprintf("%*s ", marginWidth-1, text))
		} else {
			sb.WriteString(strings.Repeat(" ", marginWidth))
		}
		for col := range slices {
			if cell := grid[r][col]; cell != "" {
				sb.WriteString(cell)
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
