package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Check is one diagnostic result rendered by RenderDoctor.
type Check struct {
	Name    string
	OK      bool
	Warn    bool
	Message string
}

// RenderDoctor draws a static, one-shot panel of diagnostic checks to out
// via Bubble Tea, Program.Run returning as soon as the first frame is
// drawn. Used on an interactive terminal; DoctorPlain is the fallback.
func RenderDoctor(out io.Writer, checks []Check) error {
	m := doctorModel{checks: checks, styles: DefaultStyles()}
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithoutSignalHandler())
	_, err := p.Run()
	return err
}

// DoctorPlain renders the same checks without styling, for non-TTY output
// or when NO_COLOR is set.
func DoctorPlain(out io.Writer, checks []Check) {
	for _, c := range checks {
		icon := "✅"
		if !c.OK {
			icon = "❌"
		} else if c.Warn {
			icon = "⚠️"
		}
		fmt.Fprintf(out, "%s %s: %s\n", icon, c.Name, c.Message)
	}
}

type doctorModel struct {
	checks []Check
	styles Styles
}

func (m doctorModel) Init() tea.Cmd {
	return tea.Quit
}

func (m doctorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

func (m doctorModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("rlmctx doctor"))
	b.WriteString("\n\n")
	for _, c := range m.checks {
		style := m.styles.Success
		icon := "✓"
		switch {
		case !c.OK:
			style, icon = m.styles.Error, "✗"
		case c.Warn:
			style, icon = m.styles.Warning, "!"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s", icon, c.Name)))
		b.WriteString(m.styles.Dim.Render(" " + c.Message))
		b.WriteString("\n")
	}
	return m.styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}
