package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/newtask/pkg/audit"
	"github.com/newtron-network/newtask/pkg/cli"
)

var (
	auditUser     string
	auditPlaybook string
	auditModule   string
	auditHost     string
	auditLast     string
	auditLimit    int
	auditFailures bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the build audit log",
	Long: `View the audit log of playbook builds, newest first.

Every build records the user, intent file, playbook, output target,
task count, modules used and outcome.

Examples:
  newtask audit
  newtask audit --last 24h
  newtask audit --module cisco.nxos.nxos_acls
  newtask audit --host leaf1 --last 168h
  newtask audit --failures --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			User:        auditUser,
			Playbook:    auditPlaybook,
			Module:      auditModule,
			Host:        auditHost,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}

		// Parse --last duration
		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}
		return printEvents(os.Stdout, events, jsonOutput)
	},
}

func printEvents(w io.Writer, events []*audit.Event, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(events)
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No audit events found")
		return nil
	}

	t := cli.NewTableTo(w, "TIMESTAMP", "USER", "PLAYBOOK", "TASKS", "TARGET", "STATUS")
	for _, event := range events {
		status := green("ok")
		if event.DryRun {
			status = yellow("dry-run")
		}
		if !event.Success {
			status = red("failed")
		}
		target := event.Sink
		if target == "" {
			target = "-"
		}
		t.Row(
			event.Timestamp.Format("2006-01-02 15:04:05"),
			event.User,
			event.Playbook,
			strconv.Itoa(event.Tasks),
			target,
			status,
		)
	}
	t.Flush()
	return nil
}

func init() {
	auditCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditCmd.Flags().StringVar(&auditPlaybook, "playbook", "", "Filter by playbook name")
	auditCmd.Flags().StringVar(&auditModule, "module", "", "Filter by module used")
	auditCmd.Flags().StringVar(&auditHost, "host", "", "Filter by target host")
	auditCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed builds")
}
