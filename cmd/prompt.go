package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"imgocr/internal/logger"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Ask for extensions, output file and languages, then run the batch",
	Long: `Interactive mode. Asks for:

  1. the file extensions to process, separated by spaces
  2. the output file name, which must end in .txt (asked again until it does)
  3. the languages, joined by '+'

and then recognizes the matching files of the current directory exactly like
the extract command. Language data is taken from TESSDATA_PREFIX or --tessdata.`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

// promptAnswers are the values collected by the interactive prompt.
type promptAnswers struct {
	Extensions []string
	OutputPath string
	Languages  string
}

func init() {
	rootCmd.AddCommand(promptCmd)
	addEngineFlags(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("prompt")

	answers, err := askBatchInputs(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	return runBatch(cmd, batchOptions{
		Dir:        ".",
		Extensions: answers.Extensions,
		OutputPath: answers.OutputPath,
		Languages:  answers.Languages,
		Engine:     resolveEngineSettings(cmd),
	}, log)
}

// askBatchInputs reads the three answers from in, writing prompts to out.
func askBatchInputs(in io.Reader, out io.Writer) (promptAnswers, error) {
	scanner := bufio.NewScanner(in)
	ask := func(question string) (string, error) {
		fmt.Fprint(out, question)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read answer: %w", err)
			}
			return "", errors.New("input closed before all answers were given")
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	var answers promptAnswers

	line, err := ask("Enter the file extensions separated by space (e.g., .png .jpg): ")
	if err != nil {
		return answers, err
	}
	answers.Extensions = strings.Fields(line)

	answers.OutputPath, err = ask("Enter the output filename (e.g., output.txt): ")
	if err != nil {
		return answers, err
	}
	for !strings.HasSuffix(answers.OutputPath, outputSuffix) {
		fmt.Fprintf(out, "Invalid output filename. Please choose a %s output filename.\n", outputSuffix)
		answers.OutputPath, err = ask("Enter the output file path: ")
		if err != nil {
			return answers, err
		}
	}

	answers.Languages, err = ask("Enter languages separated by '+' (e.g., eng+fra+rus): ")
	if err != nil {
		return answers, err
	}

	return answers, nil
}
