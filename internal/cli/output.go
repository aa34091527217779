package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/snakegame/snake-api/internal/client"
)

const dateLayout = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	youStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

type printer struct {
	w    io.Writer
	json bool
}

func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) User(u *client.User) error {
	if p.json {
		return p.JSON(u)
	}
	p.Line("%s <%s>", u.Username, u.Email)
	p.Line("best score: %d", u.BestScore)
	if u.GoogleID {
		p.Line("linked to Google")
	}
	return nil
}

func (p *printer) Scores(scores []client.Score) error {
	if p.json {
		return p.JSON(scores)
	}
	if len(scores) == 0 {
		p.Line("No scores yet. Run `snake play` to set one.")
		return nil
	}
	rows := make([][]string, 0, len(scores))
	for i, s := range scores {
		rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Itoa(s.Score), s.CreatedAt.Local().Format(dateLayout)})
	}
	p.Line("%s", newTable("#", "Score", "Played").Rows(rows...).String())
	return nil
}

func (p *printer) Leaderboard(lb *client.Leaderboard, username string) error {
	if p.json {
		return p.JSON(lb)
	}
	if len(lb.Entries) == 0 {
		p.Line("The leaderboard is empty.")
		return nil
	}
	rows := make([][]string, 0, len(lb.Entries))
	for _, entry := range lb.Entries {
		name := entry.Username
		if name == username {
			name = youStyle.Render(name + " (you)")
		}
		rows = append(rows, []string{strconv.Itoa(entry.Rank), name, strconv.Itoa(entry.Score), entry.JoinedAt.Local().Format("2006-01-02")})
	}
	p.Line("%s", newTable("Rank", "Player", "Best", "Joined").Rows(rows...).String())
	if lb.UserRank != nil && lb.UserScore != nil {
		p.Line("Your rank: #%d with %d", *lb.UserRank, *lb.UserScore)
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
