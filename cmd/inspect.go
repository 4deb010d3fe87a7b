package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"power_relay/internal/config"
	"power_relay/internal/models"
	"power_relay/internal/repository"
	"power_relay/internal/repository/db"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var jsonOutput bool

var timersCmd = &cobra.Command{
	Use:   "timers",
	Short: "Print the persisted timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(func(ctx context.Context, repos *repository.Repository) error {
			timers, err := repos.Timers.LoadTimers(ctx)
			if err != nil {
				return fmt.Errorf("load timers: %w", err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), timers)
			}
			return printTimers(cmd.OutOrStdout(), timers)
		})
	},
}

var protectionCmd = &cobra.Command{
	Use:   "protection",
	Short: "Print the persisted current limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepository(func(ctx context.Context, repos *repository.Repository) error {
			limits, err := repos.Protection.LoadLimits(ctx)
			if err != nil {
				return fmt.Errorf("load limits: %w", err)
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), limits)
			}
			return printLimits(cmd.OutOrStdout(), limits)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{timersCmd, protectionCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
		rootCmd.AddCommand(c)
	}
}

// withRepository opens the configured database for the duration of fn.
func withRepository(fn func(ctx context.Context, repos *repository.Repository) error) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	defer func(conn *sql.DB) { _ = conn.Close() }(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return fn(ctx, repository.NewRepository(conn))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTimers(w io.Writer, timers []models.Timer) error {
	if len(timers) == 0 {
		_, err := fmt.Fprintln(w, "no timers")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tRELAY\tTIME\tACTION\tREPEAT\tWEEKDAYS\tENABLED\tLAST TRIGGERED")
	for _, t := range timers {
		action := "OFF"
		if t.State {
			action = "ON"
		}
		last := "never"
		if t.LastTriggered > 0 {
			last = time.Unix(t.LastTriggered, 0).UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%d\t%02d:%02d\t%s\t%s\t%07b\t%t\t%s\n",
			t.ID, t.RelayID, t.Hour, t.Minute, action, t.Repeat, t.Weekdays, t.Enabled, last)
	}
	return tw.Flush()
}

func printLimits(w io.Writer, limits models.ProtectionLimits) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tLIMIT (mA)")
	for i, l := range limits.Array() {
		limit := fmt.Sprint(l)
		if l == 0 {
			limit = "disabled"
		}
		fmt.Fprintf(tw, "%d\t%s\n", i, limit)
	}
	return tw.Flush()
}
