package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	gojson "github.com/goccy/go-json"
	"golang.org/x/term"

	"spacegame/internal/leaderboard"
)

// useTable reports whether output to w should be a table: always for
// "table", never for "json", and for "auto" only when w is a terminal.
func useTable(w io.Writer, format string) bool {
	switch format {
	case "table":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writePage(w io.Writer, format string, p leaderboard.Page) error {
	if !useTable(w, format) {
		return gojson.NewEncoder(w).Encode(p)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tPLAYER\tMODE\tREGION")
	for _, e := range p.Entries {
		player := e.Profile.UserName
		if player == "" {
			player = "(unknown)"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", e.Rank, e.Score.Score, player, e.Score.GameMode, e.Score.GameRegion)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d (zero-based) of %d pages, %d scores\n", p.Page, p.Pages(), p.Total)
	return err
}

func writeCount(w io.Writer, format string, n int) error {
	if !useTable(w, format) {
		return gojson.NewEncoder(w).Encode(map[string]int{"count": n})
	}
	_, err := fmt.Fprintln(w, n)
	return err
}
