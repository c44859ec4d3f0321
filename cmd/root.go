package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgocr/internal/config"
	"imgocr/internal/logger"
)

var version = "1.0.0"

// appConfig holds the defaults for command flags. loadConfig replaces it
// before any command runs.
var appConfig = config.Defaults()

var rootCmd = &cobra.Command{
	Use:   "imgocr",
	Short: "imgocr - batch OCR for the image files of a directory",
	Long: `imgocr recognizes the text in a set of image files and writes the
concatenated result to a single text file.

Images are selected by file extension, converted to grayscale and passed to
an OCR engine (Tesseract by default, or Google Cloud Vision / Document AI).
An image that cannot be read or recognized is recorded in the output as an
error line and processing continues with the next image.`,
	Version:           version,
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("imgocr executed without a command")

		fmt.Fprintln(cmd.OutOrStdout(), "Welcome to imgocr!")
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'imgocr prompt' for interactive mode or use --help to see available commands.")
	},
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration from the environment and sets up
// logging with it. A configuration that fails validation stops the command.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	appConfig = cfg

	logger.WithComponent("cmd").Debug().
		Str("command", cmd.Name()).
		Str("engine", cfg.Engine).
		Msg("Configuration loaded")
	return nil
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
