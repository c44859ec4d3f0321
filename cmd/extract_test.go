package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgocr/internal/ocr"
)

// stubEngine returns the same text for every image, the way gosseract
// returns it with trimming enabled.
type stubEngine struct {
	text      string
	languages []string
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Recognize(ctx context.Context, img image.Image, languages string) (string, error) {
	s.languages = append(s.languages, languages)
	return s.text, nil
}

func (s *stubEngine) Close() error { return nil }

// useEngine makes commands use engine and returns the settings they asked for.
func useEngine(t *testing.T, engine ocr.Engine) *[]engineSettings {
	t.Helper()
	var requested []engineSettings
	previous := newEngine
	newEngine = func(ctx context.Context, settings engineSettings, log zerolog.Logger) (ocr.Engine, error) {
		requested = append(requested, settings)
		return engine, nil
	}
	t.Cleanup(func() { newEngine = previous })
	return &requested
}

// setTestEnv clears the configuration variables, sends logs to a temp file
// and restores the command globals afterwards.
func setTestEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OCR_ENGINE", "OCR_LANGUAGES", "OCR_EXTENSIONS", "OCR_OUTPUT", "TESSDATA_PREFIX",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION",
		"DOCUMENT_AI_PROCESSOR_ID", "DOCUMENT_AI_PROCESSOR_VERSION",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_TIME_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_OUTPUT", filepath.Join(t.TempDir(), "imgocr.log"))

	previousConfig := appConfig
	previousLogger := log.Logger
	level := zerolog.GlobalLevel()
	t.Cleanup(func() {
		appConfig = previousConfig
		log.Logger = previousLogger
		zerolog.SetGlobalLevel(level)
	})
}

// runCommand executes the root command with args and returns its stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeImage(t *testing.T, dir, name string) {
	t.Helper()
	img := imaging.New(40, 20, color.White)
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExtractCommand(t *testing.T) {
	setTestEnv(t)
	t.Setenv("OCR_EXTENSIONS", ".png")
	t.Setenv("OCR_LANGUAGES", "eng+fra")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")

	dir := t.TempDir()
	writeImage(t, dir, "a.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), nil, 0o600))
	writeImage(t, dir, "c.jpg")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0o600))

	engine := &stubEngine{text: "HELLO"}
	requested := useEngine(t, engine)

	// Extensions and languages come from the configuration.
	output := filepath.Join(t.TempDir(), "scans.txt")
	stdout, err := runCommand(t, "extract", "--dir", dir, "-o", output)
	require.NoError(t, err)

	want := "Languages: eng+fra - File: a.png\nHELLO\n\n" +
		"Error processing image b.png: cannot decode image " + filepath.Join(dir, "b.png") + ": image: unknown format\n"
	assert.Equal(t, want, readFile(t, output))

	assert.Contains(t, stdout, "Images:     2\n")
	assert.Contains(t, stdout, "Recognized: 1\n")
	assert.Contains(t, stdout, "Errors:     1\n")
	assert.Contains(t, stdout, "Output:     "+output+"\n")

	require.Len(t, *requested, 1)
	assert.Equal(t, "tesseract", (*requested)[0].Engine)
	assert.Equal(t, "/opt/tessdata", (*requested)[0].TessdataPath)
	assert.Equal(t, []string{"eng+fra"}, engine.languages)

	// Flags override the configuration.
	output = filepath.Join(t.TempDir(), "jpegs.txt")
	_, err = runCommand(t, "extract", "--dir", dir, "-o", output, "-e", ".jpg", "-l", "deu")
	require.NoError(t, err)

	assert.Equal(t, "Languages: deu - File: c.jpg\nHELLO\n\n", readFile(t, output))
	assert.Equal(t, []string{"eng+fra", "deu"}, engine.languages)
}

func TestExtractCommand_MissingDirectory(t *testing.T) {
	setTestEnv(t)
	requested := useEngine(t, &stubEngine{})

	missing := filepath.Join(t.TempDir(), "missing")
	output := filepath.Join(t.TempDir(), "out.txt")
	_, err := runCommand(t, "extract", "--dir", missing, "-o", output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list directory")
	assert.Empty(t, *requested)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}
