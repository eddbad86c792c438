package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go-ensemble/pkg/models"
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		resp, err := newClient().Generate(cmd.Context(), models.GenerateRequest{Prompt: &prompt})
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		out, err := renderAnswer(resp, showReview)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
