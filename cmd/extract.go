package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imgocr/internal/batch"
	"imgocr/internal/locator"
	"imgocr/internal/logger"
)

// outputSuffix is the extension the interactive prompt requires for the output file.
const outputSuffix = ".txt"

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recognize every matching image in a directory into one text file",
	Long: `Find the files of a directory whose names end with one of the given
extensions, recognize them in name order and write all recognized text to a
single output file.

For each image with text the output contains:

  Languages: <languages> - File: <name>
  <recognized text>

An image that cannot be opened or recognized produces the line
"Error processing image <name>: <error>" and processing continues. Images with
no recognized text produce nothing.

Extensions are matched literally against the end of the file name, so
".PNG" and ".png" are different extensions.`,
	Example: `  # Recognize all PNG and JPEG files of the current directory
  imgocr extract -e .png -e .jpg -o output.txt

  # English and French text with language data from ./tessdata
  imgocr extract -e .png -l eng+fra --tessdata ./tessdata -o scans.txt

  # Use Google Cloud Vision on another directory
  imgocr extract --dir ./scans -e .png --engine vision -o scans.txt`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

// batchOptions are the resolved inputs of one batch run.
type batchOptions struct {
	Dir        string
	Extensions []string
	OutputPath string
	Languages  string
	Engine     engineSettings
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringSliceP("ext", "e", nil, "File name suffixes to process, repeatable (default from OCR_EXTENSIONS)")
	extractCmd.Flags().StringP("output", "o", "", "Output text file (default from OCR_OUTPUT)")
	extractCmd.Flags().StringP("lang", "l", "", "Languages joined by '+', e.g. eng+fra (default from OCR_LANGUAGES)")
	extractCmd.Flags().String("dir", ".", "Directory to scan for images")
	addEngineFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	extensions := appConfig.Extensions
	if cmd.Flags().Changed("ext") {
		extensions, _ = cmd.Flags().GetStringSlice("ext")
	}
	dir, _ := cmd.Flags().GetString("dir")

	opts := batchOptions{
		Dir:        dir,
		Extensions: extensions,
		OutputPath: stringFlagOr(cmd, "output", appConfig.OutputPath),
		Languages:  stringFlagOr(cmd, "lang", appConfig.Languages),
		Engine:     resolveEngineSettings(cmd),
	}

	if !strings.HasSuffix(opts.OutputPath, outputSuffix) {
		log.Warn().
			Str("output", opts.OutputPath).
			Msgf("Output file does not have %s extension", outputSuffix)
	}

	return runBatch(cmd, opts, log)
}

// runBatch locates the images, recognizes them and prints a summary.
func runBatch(cmd *cobra.Command, opts batchOptions, log zerolog.Logger) error {
	log.Info().
		Str("dir", opts.Dir).
		Strs("extensions", opts.Extensions).
		Str("output", opts.OutputPath).
		Str("languages", opts.Languages).
		Str("engine", opts.Engine.Engine).
		Msg("Starting batch OCR")

	names, err := locator.FindByExtension(opts.Dir, opts.Extensions)
	if err != nil {
		log.Error().
			Err(err).
			Str("dir", opts.Dir).
			Msg("Failed to list directory")
		return fmt.Errorf("failed to list directory %s: %w", opts.Dir, err)
	}

	ctx, cancel := createContextWithTimeout(opts.Engine.Timeout, log)
	defer cancel()

	engine, err := newEngine(ctx, opts.Engine, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	recognizer := batch.NewRecognizer(engine)
	report, err := recognizer.Run(ctx, locator.Paths(opts.Dir, names), opts.OutputPath, opts.Languages)
	if err != nil {
		return handleOCRError(err, log)
	}

	printSummary(cmd.OutOrStdout(), report)
	return nil
}

func printSummary(w io.Writer, report *batch.Report) {
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Images:     %d\n", report.Total)
	fmt.Fprintf(w, "Recognized: %d\n", report.Recognized)
	if report.Empty > 0 {
		fmt.Fprintf(w, "No text:    %d\n", report.Empty)
	}
	if report.Failed > 0 {
		fmt.Fprintf(w, "Errors:     %d\n", report.Failed)
	}
	fmt.Fprintf(w, "Output:     %s\n", report.OutputPath)
	fmt.Fprintln(w, strings.Repeat("=", 50))
}
