package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"moodlequiz/internal/log"
	"moodlequiz/internal/model"
	"moodlequiz/internal/quiz"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "quizextract",
		Short:         "Extract Moodle multiple choice questions and encode answers offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.InitLogger(true)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log extraction details to stderr")

	root.AddCommand(newParseCmd(), newEncodeCmd())
	return root
}

// readFragment reads an HTML fragment from a file, or stdin for "-".
func readFragment(cmd *cobra.Command, path string) (string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("cannot read input file: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("cannot read input: %w", err)
	}
	return string(b), nil
}

// extractFile runs the chosen extractor over one fragment. Partial results are
// kept; an error is returned only when nothing could be extracted.
func extractFile(cmd *cobra.Command, path, mode, itemType string, sequenceCheck int) (model.AttemptPage, error) {
	fragment, err := readFragment(cmd, path)
	if err != nil {
		return model.AttemptPage{}, err
	}
	extractor, err := quiz.NewExtractor(mode)
	if err != nil {
		return model.AttemptPage{}, err
	}
	data := model.AttemptData{
		NextPage: -1,
		Questions: []model.QuizItem{{
			Slot:          1,
			Type:          itemType,
			HTML:          fragment,
			SequenceCheck: sequenceCheck,
		}},
	}
	return quiz.ExtractPage(extractor, 0, 0, data)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
