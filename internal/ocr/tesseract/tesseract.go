// Package tesseract implements ocr.Engine on top of libtesseract via gosseract.
//
// Tesseract must be installed on the system together with the language data
// for every language that will be requested:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Language data can also be kept next to the project and pointed to with
// Config.TessdataPath (the TESSDATA_PREFIX setting of the CLI). Files are
// available from https://github.com/tesseract-ocr/tessdata.
package tesseract

import (
	"context"
	"image"

	"github.com/otiai10/gosseract/v2"

	"imgocr/internal/ocr"
)

const engineName = "tesseract"

// Config holds the engine settings that apply to every recognition call.
type Config struct {
	// TessdataPath is the directory holding *.traineddata files. It is set on
	// each client the engine creates instead of through the process-wide
	// TESSDATA_PREFIX variable. Empty leaves the library default in place.
	TessdataPath string
}

// Engine implements ocr.Engine using a fresh gosseract client per image.
type Engine struct {
	config        Config
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed OCR engine.
func New(config Config) *Engine {
	return &Engine{config: config, clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return engineName }

// Recognize performs OCR on img with the given '+'-joined language
// specification. The specification is handed to Tesseract unchanged.
func (e *Engine) Recognize(ctx context.Context, img image.Image, languages string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := ocr.EncodePNG(img)
	if err != nil {
		return "", ocr.NewOCRError(engineName, "encode", ocr.ErrUnsupportedImage, err.Error())
	}

	client := e.clientFactory()
	defer client.Close()
	// Keep the trailing newline Tesseract ends its text with; the output
	// format relies on it to separate entries.
	client.Trim = false

	if e.config.TessdataPath != "" {
		if err := client.SetTessdataPrefix(e.config.TessdataPath); err != nil {
			return "", ocr.NewOCRError(engineName, "set tessdata prefix", ocr.ErrInvalidConfiguration, err.Error())
		}
	}
	if languages != "" {
		if err := client.SetLanguage(languages); err != nil {
			return "", ocr.NewOCRError(engineName, "set language", ocr.ErrInvalidLanguage, err.Error())
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", ocr.NewOCRError(engineName, "set image", ocr.ErrUnsupportedImage, err.Error())
	}

	// Initialization happens lazily here, so a missing traineddata file for
	// the requested language also surfaces from Text.
	text, err := client.Text()
	if err != nil {
		return "", ocr.NewOCRError(engineName, "recognize", ocr.ErrRecognitionFailed, err.Error())
	}
	return text, nil
}

// Close is a no-op; clients are closed after every image.
func (e *Engine) Close() error { return nil }

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
