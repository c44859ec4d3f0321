package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"imgocr/internal/logger"
)

// Supported recognition engines.
const (
	EngineTesseract  = "tesseract"
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
)

type Config struct {
	// OCR Configuration
	Engine       string
	Languages    string
	Extensions   []string
	OutputPath   string
	TessdataPath string

	// Google Cloud Configuration (vision and documentai engines)
	GoogleCloudProject         string
	GoogleCloudLocation        string
	DocumentAIProcessorID      string
	DocumentAIProcessorVersion string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Defaults returns the configuration used when no environment is set.
func Defaults() *Config {
	return &Config{
		Engine:              EngineTesseract,
		Languages:           "eng",
		Extensions:          []string{".png", ".jpg", ".jpeg"},
		OutputPath:          "output.txt",
		TessdataPath:        "test_data/",
		GoogleCloudLocation: "us",
		LogLevel:            "info",
		LogFormat:           "console",
		LogTimeFormat:       time.RFC3339,
		LogOutput:           "stderr",
	}
}

func Load() (*Config, error) {
	def := Defaults()
	config := &Config{
		Engine:                     strings.ToLower(getEnv("OCR_ENGINE", def.Engine)),
		Languages:                  getEnv("OCR_LANGUAGES", def.Languages),
		Extensions:                 getEnvList("OCR_EXTENSIONS", def.Extensions),
		OutputPath:                 getEnv("OCR_OUTPUT", def.OutputPath),
		TessdataPath:               getEnv("TESSDATA_PREFIX", def.TessdataPath),
		GoogleCloudProject:         getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:        getEnv("GOOGLE_CLOUD_LOCATION", def.GoogleCloudLocation),
		DocumentAIProcessorID:      getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		DocumentAIProcessorVersion: getEnv("DOCUMENT_AI_PROCESSOR_VERSION", ""),
		LogLevel:                   getEnv("LOG_LEVEL", def.LogLevel),
		LogFormat:                  getEnv("LOG_FORMAT", def.LogFormat),
		LogTimeFormat:              getEnv("LOG_TIME_FORMAT", def.LogTimeFormat),
		LogOutput:                  getEnv("LOG_OUTPUT", def.LogOutput),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the engine selection and the settings that engine needs.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineTesseract, EngineVision:
	case EngineDocumentAI:
		if c.GoogleCloudProject == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required for the %s engine", c.Engine)
		}
		if c.DocumentAIProcessorID == "" {
			return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the %s engine", c.Engine)
		}
	default:
		return fmt.Errorf("unknown OCR_ENGINE %q (want %s, %s or %s)",
			c.Engine, EngineTesseract, EngineVision, EngineDocumentAI)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a whitespace separated variable, the same way the
// interactive prompt splits its extension answer.
func getEnvList(key string, defaultValue []string) []string {
	fields := strings.Fields(os.Getenv(key))
	if len(fields) == 0 {
		return defaultValue
	}
	return fields
}
