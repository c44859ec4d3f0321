// Package ocr defines the recognition engine used by the batch recognizer and
// the cloud-backed engines built on Google Cloud Vision and Document AI.
//
// The local Tesseract engine lives in the ocr/tesseract sub-package so that
// callers which only need the interface do not link libtesseract.
//
// Engines receive an already decoded, single-channel image and a language
// specification. The specification is an opaque token such as "eng" or a
// '+'-joined list such as "eng+fra"; each engine forwards it in the form its
// backend understands.
//
// Environment variables read by the cloud engines:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Cloud Vision and Document AI limits:
//   - Maximum inline image size: 20MB
//   - Quota limits apply per project
package ocr

import (
	"context"
	"image"
	"strings"
)

// Engine recognizes text in a single image.
type Engine interface {
	// Name identifies the engine in logs and error messages.
	Name() string

	// Recognize returns the text found in img. An empty string with a nil
	// error means the engine ran and found nothing.
	// Engine failures are returned as *OCRError; context errors are returned
	// unwrapped.
	Recognize(ctx context.Context, img image.Image, languages string) (string, error)

	// Close releases any client held by the engine.
	Close() error
}

// LanguageList splits a '+'-joined language specification into its tokens,
// dropping empty ones.
func LanguageList(languages string) []string {
	var list []string
	for _, lang := range strings.Split(languages, "+") {
		if lang = strings.TrimSpace(lang); lang != "" {
			list = append(list, lang)
		}
	}
	return list
}
