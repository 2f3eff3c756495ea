package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"moodlequiz/internal/model"
	"moodlequiz/internal/quiz"
)

func newEncodeCmd() *cobra.Command {
	var (
		exportCode    string
		sequenceCheck int
		value         int
		attemptID     int
		from          string
		question      int
		mode          string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the mod_quiz_process_attempt data for one answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				page, err := extractFile(cmd, from, mode, quiz.TypeMultichoice, sequenceCheck)
				if err != nil {
					return err
				}
				if question < 1 || question > len(page.Questions) {
					return fmt.Errorf("question %d out of range, fragment has %d", question, len(page.Questions))
				}
				req, err := quiz.NewSubmission(attemptID, page.Questions[question-1], value)
				if err != nil {
					return err
				}
				return writeEncoded(cmd, req)
			}

			if exportCode == "" {
				return errors.New("--export-code or --from is required")
			}
			data, err := quiz.EncodeAnswer(value, exportCode, sequenceCheck)
			if err != nil {
				return err
			}
			return writeEncoded(cmd, model.ProcessAttemptRequest{AttemptID: attemptID, Data: data})
		},
	}
	cmd.Flags().StringVar(&exportCode, "export-code", "", "answer field name, e.g. q3:1_answer")
	cmd.Flags().IntVar(&sequenceCheck, "sequencecheck", 0, "sequence check of the question slot")
	cmd.Flags().IntVar(&value, "value", 0, "selected answer value")
	cmd.Flags().IntVar(&attemptID, "attempt", 0, "wrap the fields in a request for this attempt")
	cmd.Flags().StringVar(&from, "from", "", "take the export code from a saved question fragment")
	cmd.Flags().IntVar(&question, "question", 1, "question number within --from, starting at 1")
	cmd.Flags().StringVar(&mode, "mode", quiz.ModeDOM, "extraction strategy for --from: dom or segment")
	return cmd
}

func writeEncoded(cmd *cobra.Command, req model.ProcessAttemptRequest) error {
	if req.AttemptID > 0 {
		return writeJSON(cmd, req)
	}
	return writeJSON(cmd, req.Data)
}
