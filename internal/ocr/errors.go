package ocr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Common OCR processing errors
var (
	// ErrRecognitionFailed is returned when the engine fails to recognize an image.
	ErrRecognitionFailed = errors.New("OCR processing failed")

	// ErrUnsupportedImage is returned when the engine rejects the image data.
	ErrUnsupportedImage = errors.New("unsupported or corrupted image")

	// ErrImageTooLarge is returned when the encoded image exceeds MaxImageSizeBytes.
	ErrImageTooLarge = errors.New("image size exceeds the maximum limit (20MB)")

	// ErrInvalidLanguage is returned when the language specification is rejected.
	ErrInvalidLanguage = errors.New("invalid language specification")

	// ErrInvalidConfiguration is returned when the engine settings are unusable,
	// for example a missing model data directory or processor.
	ErrInvalidConfiguration = errors.New("invalid OCR engine configuration")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrPermissionDenied is returned when the credentials lack access to the API.
	ErrPermissionDenied = errors.New("permission denied by OCR service")

	// ErrQuotaExceeded is returned when the API quota is exhausted.
	ErrQuotaExceeded = errors.New("OCR service quota exceeded")
)

// OCRError is a failure of one engine operation. It is confined to the image
// being recognized; callers record it and move on to the next image.
type OCRError struct {
	// Engine is the Name of the engine that failed.
	Engine string

	// Op is the step that failed, such as "recognize" or "set language".
	Op string

	// Err is one of the sentinels above or the client error.
	Err error

	// Details is the message reported by the engine or API, if any.
	Details string
}

func (e *OCRError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Engine, e.Op, e.Err)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// NewOCRError returns an OCRError for a failed step of engine.
func NewOCRError(engine, op string, err error, details string) *OCRError {
	return &OCRError{Engine: engine, Op: op, Err: err, Details: details}
}

// IsOCRError reports whether err is, or wraps, an engine failure.
func IsOCRError(err error) bool {
	var ocrErr *OCRError
	return errors.As(err, &ocrErr)
}

// remoteError maps a Google API error onto the package sentinels by its
// gRPC status code.
func remoteError(engine, op string, err error) *OCRError {
	sentinel := ErrRecognitionFailed
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		sentinel = ErrPermissionDenied
	case codes.ResourceExhausted:
		sentinel = ErrQuotaExceeded
	case codes.InvalidArgument:
		sentinel = ErrUnsupportedImage
	case codes.NotFound:
		sentinel = ErrInvalidConfiguration
	}
	return NewOCRError(engine, op, sentinel, status.Convert(err).Message())
}
