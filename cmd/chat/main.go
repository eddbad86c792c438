package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go-ensemble/pkg/client"
)

const urlEnv = "ENSEMBLE_URL"

var (
	serverURL  string
	showReview bool
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with an ensemble server",
	Long: `chat sends your questions to a running ensemble server and prints the
reviewer's final answer.

With no arguments it starts an interactive session that keeps the
conversation history. Type /reset to forget it, /save to write the next
response to last_response.json and /exit to quit.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), os.Stdin, cmd.OutOrStdout())
	},
}

func newClient() *client.Client {
	return client.New(serverURL, timeout)
}

func defaultURL() string {
	if u := os.Getenv(urlEnv); u != "" {
		return u
	}
	return client.DefaultBaseURL
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultURL(), "Server base URL including /api/v1 (env "+urlEnv+")")
	rootCmd.PersistentFlags().BoolVar(&showReview, "show-review", false, "Also print the reviewer's evaluation")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Client side request timeout (0 disables)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(agentsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
