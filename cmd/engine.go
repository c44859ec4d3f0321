package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"imgocr/internal/config"
	"imgocr/internal/imageio"
	"imgocr/internal/ocr"
	"imgocr/internal/ocr/tesseract"
)

// engineSettings are the resolved engine flags of a command.
type engineSettings struct {
	Engine       string
	TessdataPath string
	Timeout      time.Duration
}

// addEngineFlags registers the flags shared by every command that runs OCR.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("engine", "", "OCR engine: tesseract, vision or documentai (default from OCR_ENGINE)")
	cmd.Flags().String("tessdata", "", "Directory with Tesseract language data (default from TESSDATA_PREFIX)")
	cmd.Flags().Int("timeout", 0, "Processing timeout in seconds (0 disables the timeout)")
}

func resolveEngineSettings(cmd *cobra.Command) engineSettings {
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	return engineSettings{
		Engine:       stringFlagOr(cmd, "engine", appConfig.Engine),
		TessdataPath: stringFlagOr(cmd, "tessdata", appConfig.TessdataPath),
		Timeout:      time.Duration(timeoutSecs) * time.Second,
	}
}

// stringFlagOr returns the flag value when it was set on the command line and
// fallback otherwise.
func stringFlagOr(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	value, _ := cmd.Flags().GetString(name)
	return value
}

// createContextWithTimeout creates a context canceled on SIGINT/SIGTERM and,
// when timeout is positive, after timeout.
func createContextWithTimeout(timeout time.Duration, log zerolog.Logger) (context.Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling OCR processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// newEngine builds the engine for a command run. Tests replace it.
var newEngine = createEngine

// createEngine builds the engine selected by settings.
func createEngine(ctx context.Context, settings engineSettings, log zerolog.Logger) (ocr.Engine, error) {
	switch settings.Engine {
	case config.EngineTesseract:
		log.Debug().
			Str("tessdata", settings.TessdataPath).
			Msg("Using Tesseract engine")
		return tesseract.New(tesseract.Config{TessdataPath: settings.TessdataPath}), nil

	case config.EngineVision:
		if !hasGoogleCredentials() {
			log.Warn().Msg("No Google Cloud credentials variables set, trying application default credentials")
		}
		engine, err := ocr.NewVisionEngine(ctx)
		if err != nil {
			return nil, handleOCRError(err, log)
		}
		return engine, nil

	case config.EngineDocumentAI:
		engine, err := ocr.NewDocumentAIEngine(ctx, ocr.DocumentAIConfig{
			ProjectID:        appConfig.GoogleCloudProject,
			Location:         appConfig.GoogleCloudLocation,
			ProcessorID:      appConfig.DocumentAIProcessorID,
			ProcessorVersion: appConfig.DocumentAIProcessorVersion,
			Timeout:          60 * time.Second,
		})
		if err != nil {
			return nil, handleOCRError(err, log)
		}
		return engine, nil

	default:
		return nil, fmt.Errorf("unknown OCR engine %q (want %s, %s or %s)",
			settings.Engine, config.EngineTesseract, config.EngineVision, config.EngineDocumentAI)
	}
}

func hasGoogleCredentials() bool {
	return os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" || os.Getenv("GOOGLE_CREDENTIALS") != ""
}

// handleOCRError provides user-friendly error messages for OCR failures
func handleOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR processing timed out. Try increasing --timeout or processing fewer images")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR processing was canceled")
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("Google Cloud credentials not configured. Please set one of:\n\n" +
			"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n" +
			"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n" +
			"2. Export GOOGLE_CREDENTIALS with inline JSON\n\n" +
			"3. Use Application Default Credentials (gcloud auth application-default login)")
	case errors.Is(err, ocr.ErrPermissionDenied):
		return fmt.Errorf("permission denied. Please ensure the service account may call the selected OCR API: %w", err)
	case errors.Is(err, ocr.ErrQuotaExceeded):
		return fmt.Errorf("OCR API quota exceeded. Check your project quotas in the Google Cloud Console")
	case errors.Is(err, ocr.ErrInvalidConfiguration):
		return fmt.Errorf("OCR engine is not configured correctly: %w", err)
	case errors.Is(err, ocr.ErrInvalidLanguage):
		return fmt.Errorf("language specification was rejected. Check that the language data is installed: %w", err)
	case imageio.IsLoadError(err):
		return fmt.Errorf("could not read image: %w", err)
	default:
		return fmt.Errorf("OCR processing failed: %w", err)
	}
}
