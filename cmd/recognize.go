package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imgocr/internal/imageio"
	"imgocr/internal/logger"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize [image-file]",
	Short: "Recognize the text of a single image",
	Long: `Convert one image to grayscale, recognize it and print the text.

Unlike extract, a failure is reported as a command error instead of being
written to the output.`,
	Example: `  # Print the text of scan.png
  imgocr recognize scan.png

  # German text, saved to a file
  imgocr recognize scan.png -l deu -o scan.txt

  # Prefix the text with file and engine information
  imgocr recognize scan.png --metadata`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	recognizeCmd.Flags().StringP("lang", "l", "", "Languages joined by '+' (default from OCR_LANGUAGES)")
	recognizeCmd.Flags().BoolP("metadata", "m", false, "Include metadata in output")
	addEngineFlags(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("recognize")

	outputPath, _ := cmd.Flags().GetString("output")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	languages := stringFlagOr(cmd, "lang", appConfig.Languages)
	settings := resolveEngineSettings(cmd)

	imagePath := args[0]

	log.Info().
		Str("file", imagePath).
		Str("output", outputPath).
		Str("languages", languages).
		Str("engine", settings.Engine).
		Msg("Starting OCR processing")

	fileInfo, err := validateImageFile(imagePath, log)
	if err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(settings.Timeout, log)
	defer cancel()

	engine, err := newEngine(ctx, settings, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := engine.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR engine")
		}
	}()

	img, err := imageio.LoadGray(imagePath)
	if err != nil {
		return handleOCRError(err, log)
	}

	startTime := time.Now()
	text, err := engine.Recognize(ctx, img, languages)
	if err != nil {
		return handleOCRError(err, log)
	}
	duration := time.Since(startTime)

	log.Info().
		Dur("duration", duration).
		Int("text_length", len(text)).
		Msg("OCR processing completed successfully")

	var output []byte
	if includeMetadata {
		bounds := img.Bounds()
		header := fmt.Sprintf("=== OCR Results for %s ===\n", filepath.Base(imagePath))
		header += fmt.Sprintf("File size: %d bytes\n", fileInfo.Size())
		header += fmt.Sprintf("Dimensions: %dx%d\n", bounds.Dx(), bounds.Dy())
		header += fmt.Sprintf("Engine: %s\n", engine.Name())
		header += fmt.Sprintf("Languages: %s\n", languages)
		header += fmt.Sprintf("Processing time: %v\n", duration)
		header += "\n=== Extracted Text ===\n\n"
		output = []byte(header)
	}
	output = append(output, text...)

	return writeRecognized(cmd, outputPath, output, log)
}

// validateImageFile checks that the file exists, is a regular file and is not empty.
func validateImageFile(imagePath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Image file not found")
			return nil, fmt.Errorf("image file not found: %s", imagePath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", imagePath).
				Msg("Permission denied accessing image file")
			return nil, fmt.Errorf("permission denied accessing image file: %s", imagePath)
		}
		return nil, fmt.Errorf("error accessing image file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", imagePath).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", imagePath)
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", imagePath).
			Msg("Image file is empty")
		return nil, fmt.Errorf("image file is empty: %s", imagePath)
	}

	return fileInfo, nil
}

func writeRecognized(cmd *cobra.Command, outputPath string, output []byte, log zerolog.Logger) error {
	if outputPath == "" {
		if _, err := cmd.OutOrStdout().Write(output); err != nil {
			log.Error().Err(err).Msg("Failed to write to stdout")
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(outputPath, output, 0644); err != nil {
		log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("bytes", len(output)).
		Msg("OCR results written to file")
	return nil
}
