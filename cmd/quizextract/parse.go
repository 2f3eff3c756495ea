package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"moodlequiz/internal/quiz"
)

func newParseCmd() *cobra.Command {
	var (
		itemType      string
		mode          string
		sequenceCheck int
	)

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the questions found in a saved question HTML fragment (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := extractFile(cmd, args[0], mode, itemType, sequenceCheck)
			if err != nil {
				return err
			}
			for _, s := range page.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", s.Reason)
			}
			return writeJSON(cmd, page.Questions)
		},
	}
	cmd.Flags().StringVar(&itemType, "type", quiz.TypeMultichoice, "question type reported by Moodle")
	cmd.Flags().StringVar(&mode, "mode", quiz.ModeDOM, "extraction strategy: dom or segment")
	cmd.Flags().IntVar(&sequenceCheck, "sequencecheck", 0, "sequence check value attached to every question")
	return cmd
}
