package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxImageSizeBytes is the largest encoded image sent inline to a cloud engine (20MB).
const MaxImageSizeBytes = 20 * 1024 * 1024

// EncodePNG serializes img as PNG, the format every engine accepts as raw bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode png: nil image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeForUpload encodes img and enforces the inline size limit of the cloud APIs.
func encodeForUpload(engine string, img image.Image) ([]byte, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, NewOCRError(engine, "encode", ErrUnsupportedImage, err.Error())
	}
	if len(data) > MaxImageSizeBytes {
		return nil, NewOCRError(engine, "encode", ErrImageTooLarge, fmt.Sprintf("encoded size: %d bytes", len(data)))
	}
	return data, nil
}
