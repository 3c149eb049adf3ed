package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/cli/formatter"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// transcriptView is a scrollable pager for one archived refinement.
type transcriptView struct {
	ref      *domain.Refinement
	vp       viewport.Model
	width    int
	quitting bool
}

type transcriptKeys struct {
	Quit key.Binding
	Top  key.Binding
	End  key.Binding
}

var transcriptKeyMap = transcriptKeys{
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Top:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	End:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
}

// chromeHeight is the number of lines used by the title and footer.
const chromeHeight = 5

func newTranscriptView(ref *domain.Refinement) *transcriptView {
	vp := viewport.New(80, 20)
	vp.KeyMap = transcriptViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	vp.SetContent(formatter.FormatRefinementDetail(ref))
	return &transcriptView{ref: ref, vp: vp, width: 80}
}

func transcriptViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ", "f")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "b")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u", "u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d", "d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

func (v *transcriptView) Init() tea.Cmd { return nil }

func (v *transcriptView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.vp.Width = msg.Width
		v.vp.Height = max(msg.Height-chromeHeight, 1)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, transcriptKeyMap.Quit):
			v.quitting = true
			return v, tea.Quit
		case key.Matches(msg, transcriptKeyMap.Top):
			v.vp.GotoTop()
			return v, nil
		case key.Matches(msg, transcriptKeyMap.End):
			v.vp.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *transcriptView) View() string {
	if v.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Header(fmt.Sprintf("%s  %s", v.ref.ShortID(), formatter.Truncate(v.ref.Theme, 60))))
	b.WriteString("\n\n")
	b.WriteString(v.vp.View())
	b.WriteString("\n")

	sep := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render(strings.Repeat("─", max(v.width, 20)))
	b.WriteString(sep)
	b.WriteString("\n")
	b.WriteString(formatter.Dim(fmt.Sprintf("%3.0f%%  ↑/↓ scroll  g/G top/bottom  q quit", v.vp.ScrollPercent()*100)))
	return b.String()
}

func runTranscriptView(ctx context.Context, ref *domain.Refinement) error {
	p := tea.NewProgram(newTranscriptView(ref), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
