package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go-ensemble/pkg/models"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the reviewer and worker agents the server is configured with",
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := newClient().Agents(cmd.Context())
		if err != nil {
			return fmt.Errorf("agents: %w", err)
		}
		printRoster(cmd.OutOrStdout(), roster)
		return nil
	},
}

func printRoster(w io.Writer, roster *models.AgentsResponse) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, "Reviewer")
	fmt.Fprintf(w, "  %s  %s  %s\n", roster.Reviewer.Name, color.CyanString(roster.Reviewer.Model), roster.Reviewer.APIURL)
	bold.Fprintf(w, "Workers (%d)\n", len(roster.Workers))
	for _, a := range roster.Workers {
		fmt.Fprintf(w, "  %s  %s  %s\n", a.Name, color.CyanString(a.Model), a.APIURL)
	}
}
