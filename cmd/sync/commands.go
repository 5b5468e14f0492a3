package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sync the next scheduled league and advance the cursor",
		Long: `Sync the next league in round-robin order.

The cursor advances only when the league finished without a fatal error.
An interrupted run leaves the cursor where it was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := rt.app.SyncService.RunScheduled(cmd.Context())
			if err != nil {
				return rt.fail("scheduled sync failed", err)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
}

func newInitialCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "initial",
		Short: "Sync every configured league once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := rt.app.SyncService.InitialLoad(cmd.Context())
			if err != nil {
				_ = writeReport(cmd.OutOrStdout(), report)
				return rt.fail("initial load failed", err)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
}

func newTopScorersCmd(rt *runtime) *cobra.Command {
	var leagueID int64

	cmd := &cobra.Command{
		Use:   "topscorers",
		Short: "Reconcile a league's top scorers without the appearance filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := rt.app.SyncService.SyncTopScorers(cmd.Context(), leagueID)
			if err != nil {
				return rt.fail("top scorers sync failed", err)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "provider league id")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

func newNationalCmd(rt *runtime) *cobra.Command {
	var teamID int64

	cmd := &cobra.Command{
		Use:   "national",
		Short: "Reconcile a national team squad without the appearance filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := rt.app.SyncService.SyncNationalTeam(cmd.Context(), teamID)
			if err != nil {
				return rt.fail("national team sync failed", err)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().Int64Var(&teamID, "team", 0, "provider team id")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func newCursorCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "cursor",
		Short: "Show the schedule cursor and the next league to sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := rt.app.SyncService.CursorState(cmd.Context())
			if err != nil {
				return rt.fail("read cursor failed", err)
			}
			return writeReport(cmd.OutOrStdout(), status)
		},
	}
}
