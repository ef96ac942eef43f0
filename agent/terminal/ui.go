package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const banner = `
███╗   ██╗ █████╗ ██████╗ ██╗███████╗██████╗
████╗  ██║██╔══██╗██╔══██╗██║██╔════╝██╔══██╗
██╔██╗ ██║███████║██████╔╝██║█████╗  ██████╔╝
██║╚██╗██║██╔══██║██╔═══╝ ██║██╔══╝  ██╔══██╗
██║ ╚████║██║  ██║██║     ██║███████╗██║  ██║
╚═╝  ╚═══╝╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝╚═╝  ╚═╝
`

// renderPanel draws a bordered panel with an optional title line.
func renderPanel(title, body string) string {
	if title != "" {
		body = titleStyle.Render(title) + "\n\n" + body
	}
	return panelStyle.Render(body)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner renders an animated progress line until the returned stop
// function is called. Stop is idempotent and waits for the line to be
// cleared, so output printed afterwards starts on a clean line.
func startSpinner(w io.Writer, message string) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-done:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", infoStyle.Render(spinnerFrames[i%len(spinnerFrames)]), message)
				i++
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}
