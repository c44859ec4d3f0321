package ocr

import (
	"context"
	"fmt"
	"image"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

const documentAIName = "documentai"

// DocumentProcessor is the subset of the Document AI client used by DocumentAIEngine.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
	Close() error
}

// DocumentAIConfig holds configuration for a Document AI OCR processor.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	// Should match where the processor was created.
	Location string

	// ProcessorID is the ID of an OCR (Document OCR) processor.
	ProcessorID string

	// ProcessorVersion pins a processor version. Empty uses the default version.
	ProcessorVersion string

	// Timeout bounds a single ProcessDocument call. Zero means no extra bound.
	Timeout time.Duration
}

// DocumentAIEngine implements Engine using a Google Document AI OCR processor.
type DocumentAIEngine struct {
	client DocumentProcessor
	config DocumentAIConfig
}

// NewDocumentAIEngine creates an engine for the configured processor with
// credentials from environment.
func NewDocumentAIEngine(ctx context.Context, config DocumentAIConfig) (*DocumentAIEngine, error) {
	if config.ProjectID == "" {
		return nil, NewOCRError(documentAIName, "configure", ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, NewOCRError(documentAIName, "configure", ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	clientOptions := credentialOptions()
	hasCredentials := len(clientOptions) > 0

	// Non-US processors are served from a regional endpoint.
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCredentials {
			return nil, NewOCRError(documentAIName, "new client", ErrMissingCredentials, err.Error())
		}
		return nil, NewOCRError(documentAIName, "new client", ErrInvalidConfiguration, fmt.Sprintf("location %s: %v", config.Location, err))
	}

	return &DocumentAIEngine{client: client, config: config}, nil
}

// NewDocumentAIEngineWithClient creates an engine with explicit config and client (for testing).
func NewDocumentAIEngineWithClient(config DocumentAIConfig, client DocumentProcessor) *DocumentAIEngine {
	return &DocumentAIEngine{client: client, config: config}
}

func (e *DocumentAIEngine) Name() string { return documentAIName }

// Recognize submits img as a raw PNG document and returns the document text.
func (e *DocumentAIEngine) Recognize(ctx context.Context, img image.Image, languages string) (string, error) {
	data, err := encodeForUpload(documentAIName, img)
	if err != nil {
		return "", err
	}

	req := &documentaipb.ProcessRequest{
		Name: e.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "image/png",
			},
		},
	}
	if hints := LanguageList(languages); len(hints) > 0 {
		req.ProcessOptions = &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				Hints: &documentaipb.OcrConfig_Hints{LanguageHints: hints},
			},
		}
	}

	processCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		processCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	resp, err := e.client.ProcessDocument(processCtx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", remoteError(documentAIName, "process", err)
	}

	if resp.GetDocument() == nil {
		return "", NewOCRError(documentAIName, "process", ErrRecognitionFailed, "no document in response")
	}

	return resp.GetDocument().GetText(), nil
}

// processorName constructs the full processor resource name for the Document AI API.
func (e *DocumentAIEngine) processorName() string {
	if e.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			e.config.ProjectID, e.config.Location, e.config.ProcessorID, e.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		e.config.ProjectID, e.config.Location, e.config.ProcessorID)
}

// Close closes the underlying Document AI client.
func (e *DocumentAIEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
