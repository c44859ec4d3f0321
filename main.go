package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"imgocr/cmd"
	"imgocr/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Commands replace this with the configured logger once the
	// configuration has been validated.
	if err := logger.Setup(logger.DefaultConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute()
}
