package tesseract_test

import (
	"context"
	"fmt"
	"log"

	"imgocr/internal/batch"
	"imgocr/internal/imageio"
	"imgocr/internal/locator"
	"imgocr/internal/ocr/tesseract"
)

// Example demonstrates recognizing a single image.
func Example() {
	engine := tesseract.New(tesseract.Config{TessdataPath: "./tessdata"})
	defer engine.Close()

	img, err := imageio.LoadGray("scan.png")
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}

	text, err := engine.Recognize(context.Background(), img, "eng")
	if err != nil {
		log.Fatalf("Failed to recognize image: %v", err)
	}
	fmt.Print(text)
}

// Example_batch demonstrates the usual flow: find the images of a directory,
// then recognize them into one text file.
func Example_batch() {
	names, err := locator.FindByExtension(".", []string{".png", ".jpg"})
	if err != nil {
		log.Fatalf("Failed to list directory: %v", err)
	}

	// Language data is read from ./tessdata instead of TESSDATA_PREFIX.
	engine := tesseract.New(tesseract.Config{TessdataPath: "./tessdata"})
	defer engine.Close()

	recognizer := batch.NewRecognizer(engine)
	report, err := recognizer.Run(context.Background(), names, "output.txt", "eng+fra")
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}

	fmt.Printf("%d images, %d recognized, %d errors, written to %s\n",
		report.Total, report.Recognized, report.Failed, report.OutputPath)
}
