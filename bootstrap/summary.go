package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/rxkit/component"
)

// Summary is the startup report printed once the application is ready.
type Summary struct {
	Service  string
	Version  string
	Startup  time.Duration
	Parts    []component.Description
	Health   []component.Health
	Warnings []string
}

// Write renders the summary as an indented tree.
func (s Summary) Write(w io.Writer) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s started in %.2fs\n", s.Service, s.Version, s.Startup.Seconds())

	if len(s.Parts) > 0 {
		b.WriteString("\nComponents\n")
		for i, d := range s.Parts {
			fmt.Fprintf(&b, "   %s %s (%s): %s\n", branch(i, len(s.Parts)), d.Name, d.Type, d.Details)
		}
	}

	if len(s.Health) > 0 {
		healthy := 0
		b.WriteString("\nHealth\n")
		for i, h := range s.Health {
			if h.Status == component.StatusHealthy {
				healthy++
			}
			line := fmt.Sprintf("   %s %s %s", branch(i, len(s.Health)), statusIcon(h.Status), h.Name)
			if h.Message != "" {
				line += " (" + h.Message + ")"
			}
			b.WriteString(line + "\n")
		}
		fmt.Fprintf(&b, "   %d/%d healthy\n", healthy, len(s.Health))
	}

	for _, warn := range s.Warnings {
		fmt.Fprintf(&b, "\n! %s\n", warn)
	}
	b.WriteString("\n")
	_, _ = io.WriteString(w, b.String())
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(s component.HealthStatus) string {
	switch s {
	case component.StatusHealthy:
		return "✓"
	case component.StatusDegraded:
		return "~"
	default:
		return "✗"
	}
}
