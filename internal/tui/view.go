package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/snakegame/snake-api/internal/game"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	foodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

func (m *Model) View() string {
	snap := m.engine.Snapshot()

	var b strings.Builder
	b.WriteString(m.header(snap))
	b.WriteString("\n")
	b.WriteString(boardStyle.Render(drawBoard(snap)))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status(snap)))
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) header(snap game.Snapshot) string {
	player := m.player
	if player == "" {
		player = "offline"
	}
	hud := fmt.Sprintf("score %d   best %d   %s", snap.Score, max(m.best, snap.Score), player)
	return titleStyle.Render("SNAKE") + "  " + hudStyle.Render(hud)
}

func (m *Model) status(snap game.Snapshot) string {
	switch snap.State {
	case game.Playing:
		if snap.Heading.IsZero() {
			return "Pick a direction"
		}
		return ""
	case game.Paused:
		return "Paused"
	case game.GameOver:
		if m.reporting {
			return fmt.Sprintf("Game over. Final score %d. Saving...", snap.Score)
		}
		return fmt.Sprintf("Game over. Final score %d. Press enter to play again.", snap.Score)
	}
	return "Press enter to start"
}

// drawBoard renders each cell two columns wide so the grid looks square.
func drawBoard(snap game.Snapshot) string {
	rows := make([]string, snap.Height)
	for y := range snap.Height {
		var row strings.Builder
		for x := range snap.Width {
			switch snap.CellAt(game.Point{X: x, Y: y}) {
			case game.CellHead:
				row.WriteString(headStyle.Render("██"))
			case game.CellBody:
				row.WriteString(bodyStyle.Render("▓▓"))
			case game.CellFood:
				row.WriteString(foodStyle.Render("<>"))
			default:
				row.WriteString(emptyStyle.Render(" ·"))
			}
		}
		rows[y] = row.String()
	}
	return strings.Join(rows, "\n")
}
