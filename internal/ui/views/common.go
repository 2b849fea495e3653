package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/tgienger/drt/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// OpenPosition asks the app to show a position's detail page
type OpenPosition struct {
	ID int64
}

// BackToPositions asks the app to show the positions list
type BackToPositions struct{}

// Alert is a blocking message the app shows until any key is pressed
type Alert struct {
	Title  string
	Detail string
	Error  bool
}

// failed logs err and returns the alert naming the action that failed
func failed(action string, err error) tea.Cmd {
	log.WithError(err).WithField("action", action).Error("action failed")
	return func() tea.Msg {
		return Alert{Title: "Failed to " + action, Detail: err.Error(), Error: true}
	}
}

func notify(title, detail string) tea.Cmd {
	return func() tea.Msg {
		return Alert{Title: title, Detail: detail}
	}
}

// RenderAlert draws an alert box centered in the content area
func RenderAlert(s *styles.Styles, a Alert, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	titleStyle := s.Title
	if a.Error {
		titleStyle = s.Error
	}
	lines := []string{titleStyle.Render(a.Title)}
	if a.Detail != "" {
		lines = append(lines, "", lipgloss.NewStyle().Width(clamp(contentWidth-10, 20, 60)).Render(a.Detail))
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to continue"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, width, height)
}

// helpLine renders "key desc • key desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s %s", s.HelpKey.Render(pairs[i]), pairs[i+1]))
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// renderHelp shows the full line, or a "? help" hint when narrow
func renderHelp(s *styles.Styles, width int, pairs ...string) string {
	contentWidth := styles.ContentWidth(width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	return helpLine(s, pairs...)
}

func renderHelpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	contentWidth := styles.ContentWidth(width)

	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, s.HelpKey.Render(fmt.Sprintf("%-7s", pairs[i]))+pairs[i+1])
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, width, height)
}

func renderConfirm(s *styles.Styles, width, height int, title, detail string) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

func renderCentered(width, height int, content string) string {
	centered := lipgloss.Place(styles.ContentWidth(width), height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// confirmKey reports "yes", "no" or "" for a key pressed on a confirm prompt
func confirmKey(msg tea.KeyMsg) string {
	switch msg.String() {
	case "y", "Y":
		return "yes"
	case "n", "N", "esc":
		return "no"
	}
	return ""
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) <= 1 {
		return string(r[:1])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
