package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/holdem-rooms/internal/history"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	winStyle    = cellStyle.Foreground(lipgloss.Color("#96CEB4"))
	loseStyle   = cellStyle.Foreground(lipgloss.Color("#FF6B6B"))
	tieStyle    = cellStyle.Foreground(lipgloss.Color("#FFEAA7"))
)

// HistoryCmd prints the recorded hands, newest first.
type HistoryCmd struct {
	File   *string `help:"History file (defaults to the configured one)"`
	Player string  `help:"Only show hands for this player name"`
	Limit  int     `default:"20" help:"Maximum number of hands to show (0 = all)"`
}

func (c *HistoryCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	path := cfg.Server.HistoryFile
	if c.File != nil {
		path = *c.File
	}

	hist, err := history.Open(path, cfg.Server.HistoryLimit, nil)
	if err != nil {
		return err
	}
	return renderHistory(os.Stdout, hist.Entries(), c.Player, c.Limit)
}

func renderHistory(w io.Writer, records []history.Record, player string, limit int) error {
	if player != "" {
		filtered := records[:0:0]
		for _, r := range records {
			if strings.EqualFold(r.PlayerName, player) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No hands recorded yet.")
		return err
	}

	stats := history.Summarize(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.RoomID,
			fmt.Sprintf("#%d", r.HandNumber),
			r.PlayerName,
			string(r.Result),
			fmt.Sprintf("%+d", r.ChipChange),
			fmt.Sprintf("%d", r.FinalChips),
			r.HandRank,
			strings.Join(r.Winners, ", "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("When", "Room", "Hand", "Player", "Result", "Change", "Chips", "Rank", "Winners").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col != 4 {
				return cellStyle
			}
			switch history.Result(rows[row][4]) {
			case history.Win:
				return winStyle
			case history.Tie:
				return tieStyle
			default:
				return loseStyle
			}
		})

	_, err := fmt.Fprintf(w, "%s\nHands: %d  Wins: %d  Ties: %d  Losses: %d  Win rate: %.0f%%  Net: %+d\n",
		t.Render(), stats.Hands, stats.Wins, stats.Ties, stats.Losses, stats.WinRate()*100, stats.NetChips)
	return err
}
