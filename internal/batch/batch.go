// Package batch runs OCR over an ordered list of images and writes the
// aggregated text to a single output file.
//
// Images are processed one at a time in input order. A failure to open,
// decode or recognize one image is written into the output as an error line
// and the batch moves on; any other error, including context cancellation,
// aborts the batch before the output file is written.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imgocr/internal/imageio"
	"imgocr/internal/logger"
	"imgocr/internal/ocr"
)

// Recognizer applies an OCR engine to batches of images.
type Recognizer struct {
	engine ocr.Engine
	log    zerolog.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger replaces the default component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Recognizer) {
		r.log = log
	}
}

// NewRecognizer returns a Recognizer that uses engine for every image.
func NewRecognizer(engine ocr.Engine, opts ...Option) *Recognizer {
	r := &Recognizer{
		engine: engine,
		log:    logger.WithComponent("batch"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run recognizes imagePaths in order with the given language specification
// and writes the entries to outputPath, truncating any previous content.
// An empty imagePaths produces an empty output file.
func (r *Recognizer) Run(ctx context.Context, imagePaths []string, outputPath, languages string) (*Report, error) {
	start := time.Now()
	report := &Report{OutputPath: outputPath, Languages: languages}

	r.log.Info().
		Int("images", len(imagePaths)).
		Str("engine", r.engine.Name()).
		Str("languages", languages).
		Str("output", outputPath).
		Msg("Starting batch recognition")

	for _, path := range imagePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := r.process(ctx, path, languages)
		if err != nil {
			return nil, err
		}
		report.add(entry)
	}

	if err := writeEntries(outputPath, report.Entries); err != nil {
		r.log.Error().
			Err(err).
			Str("output_file", outputPath).
			Msg("Failed to write output file")
		return nil, err
	}

	report.Duration = time.Since(start)
	r.log.Info().
		Int("total", report.Total).
		Int("recognized", report.Recognized).
		Int("empty", report.Empty).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Str("output_file", outputPath).
		Msg("Batch recognition completed")

	return report, nil
}

// process handles one image. A nil error with a Failed entry is a recoverable
// failure; a non-nil error aborts the batch.
func (r *Recognizer) process(ctx context.Context, path, languages string) (Entry, error) {
	name := filepath.Base(path)
	log := r.log.With().Str("file", name).Logger()
	entry := Entry{File: name, Languages: languages}

	img, err := imageio.LoadGray(path)
	if err != nil {
		return r.fail(log, entry, err)
	}

	text, err := r.engine.Recognize(ctx, img, languages)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Entry{}, ctxErr
		}
		return r.fail(log, entry, err)
	}

	if text == "" {
		entry.Outcome = Empty
		log.Debug().Msg("No text recognized")
		return entry, nil
	}

	entry.Outcome = Recognized
	entry.Text = text
	log.Debug().Int("text_length", len(text)).Msg("Image recognized")
	return entry, nil
}

func (r *Recognizer) fail(log zerolog.Logger, entry Entry, err error) (Entry, error) {
	if !Recoverable(err) {
		log.Error().Err(err).Msg("Unrecoverable error, aborting batch")
		return Entry{}, fmt.Errorf("processing image %s: %w", entry.File, err)
	}
	log.Warn().Err(err).Msg("Failed to process image")
	entry.Outcome = Failed
	entry.Err = err
	return entry, nil
}

// Recoverable reports whether err is confined to a single image: a failure
// to open or decode the file, or an engine failure.
func Recoverable(err error) bool {
	return imageio.IsLoadError(err) || ocr.IsOCRError(err)
}

// Render concatenates entries in order, exactly as Run writes them.
func Render(entries []Entry) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.String())
	}
	return b.String()
}

func writeEntries(outputPath string, entries []Entry) error {
	if err := os.WriteFile(outputPath, []byte(Render(entries)), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
