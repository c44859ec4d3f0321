package ocr

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeProcessor struct {
	resp        *documentaipb.ProcessResponse
	err         error
	req         *documentaipb.ProcessRequest
	hadDeadline bool
}

func (f *fakeProcessor) ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error) {
	f.req = req
	_, f.hadDeadline = ctx.Deadline()
	return f.resp, f.err
}

func (f *fakeProcessor) Close() error { return nil }

func testDocumentAIConfig() DocumentAIConfig {
	return DocumentAIConfig{
		ProjectID:   "my-project",
		Location:    "eu",
		ProcessorID: "abc123",
	}
}

func TestDocumentAIEngine_Recognize(t *testing.T) {
	client := &fakeProcessor{resp: &documentaipb.ProcessResponse{
		Document: &documentaipb.Document{Text: "Rechnung\n"},
	}}
	engine := NewDocumentAIEngineWithClient(testDocumentAIConfig(), client)

	text, err := engine.Recognize(context.Background(), grayImage(), "deu+eng")
	require.NoError(t, err)
	assert.Equal(t, "Rechnung\n", text)

	assert.Equal(t, "projects/my-project/locations/eu/processors/abc123", client.req.GetName())
	raw := client.req.GetRawDocument()
	require.NotNil(t, raw)
	assert.Equal(t, "image/png", raw.GetMimeType())
	assert.NotEmpty(t, raw.GetContent())
	assert.Equal(t, []string{"deu", "eng"}, client.req.GetProcessOptions().GetOcrConfig().GetHints().GetLanguageHints())
	assert.False(t, client.hadDeadline)
}

func TestDocumentAIEngine_ProcessorVersionAndTimeout(t *testing.T) {
	cfg := testDocumentAIConfig()
	cfg.ProcessorVersion = "pretrained-ocr-v2.0"
	cfg.Timeout = time.Minute

	client := &fakeProcessor{resp: &documentaipb.ProcessResponse{Document: &documentaipb.Document{}}}
	text, err := NewDocumentAIEngineWithClient(cfg, client).Recognize(context.Background(), grayImage(), "")
	require.NoError(t, err)
	assert.Empty(t, text)

	assert.Equal(t,
		"projects/my-project/locations/eu/processors/abc123/processorVersions/pretrained-ocr-v2.0",
		client.req.GetName())
	assert.Nil(t, client.req.GetProcessOptions())
	assert.True(t, client.hadDeadline)
}

func TestDocumentAIEngine_Errors(t *testing.T) {
	t.Run("no document", func(t *testing.T) {
		client := &fakeProcessor{resp: &documentaipb.ProcessResponse{}}
		_, err := NewDocumentAIEngineWithClient(testDocumentAIConfig(), client).Recognize(context.Background(), grayImage(), "eng")
		assert.ErrorIs(t, err, ErrRecognitionFailed)
	})

	t.Run("processor not found", func(t *testing.T) {
		client := &fakeProcessor{err: status.Error(codes.NotFound, "processor not found")}
		_, err := NewDocumentAIEngineWithClient(testDocumentAIConfig(), client).Recognize(context.Background(), grayImage(), "eng")
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.True(t, IsOCRError(err))
	})
}

func TestNewDocumentAIEngine_RequiresProjectAndProcessor(t *testing.T) {
	_, err := NewDocumentAIEngine(context.Background(), DocumentAIConfig{ProcessorID: "abc"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewDocumentAIEngine(context.Background(), DocumentAIConfig{ProjectID: "p"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
