package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spacegame/internal/leaderboard"
)

type filterFlags struct {
	mode   string
	region string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "game mode to filter on (e.g. Solo, Duo, Trio)")
	cmd.Flags().StringVar(&f.region, "region", "", "game region to filter on (e.g. Milky Way)")
}

func (f *filterFlags) filter() leaderboard.Filter {
	return leaderboard.Filter{GameMode: f.mode, Region: f.region}
}

func newLeaderboardCmd(a *app) *cobra.Command {
	var (
		ff       filterFlags
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show one page of high scores",
		Long: `Show one page of high scores, highest first.

Pages are zero-based: --page 0 is the first page and --page 1 skips one
full page of results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageSize == 0 {
				pageSize = a.cfg.Leaderboard.PageSize
			}
			r, err := openRepos(cmd.Context(), a.cfg, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer r.close()

			p, err := leaderboard.New(r.scores, r.profiles).Page(cmd.Context(), ff.filter(), page, pageSize)
			if err != nil {
				return err
			}
			return writePage(cmd.OutOrStdout(), a.format, p)
		},
	}
	ff.register(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "scores per page; 0 uses leaderboard.page_size")
	return cmd
}

func newCountCmd(a *app) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count scores matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepos(cmd.Context(), a.cfg, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer r.close()

			n, err := leaderboard.New(r.scores, r.profiles).Count(cmd.Context(), ff.filter())
			if err != nil {
				return err
			}
			return writeCount(cmd.OutOrStdout(), a.format, n)
		},
	}
	ff.register(cmd)
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the score and profile documents into the bolt database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, np, err := importDocuments(cmd.Context(), a.cfg, cmd.InOrStdin(), replace)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d scores and %d profiles into %s\n", ns, np, a.cfg.Data.BoltPath)
			return err
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "drop existing records before importing")
	return cmd
}
