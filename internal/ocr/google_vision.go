package ocr

import (
	"context"
	"image"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

const visionName = "vision"

// ImageAnnotator is the subset of the Cloud Vision client used by VisionEngine.
type ImageAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionEngine implements Engine using Google Cloud Vision document text detection.
type VisionEngine struct {
	client ImageAnnotator
}

// NewVisionEngine creates a Vision engine with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env,
// and falls back to application default credentials.
func NewVisionEngine(ctx context.Context) (*VisionEngine, error) {
	opts := credentialOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, NewOCRError(visionName, "new client", ErrMissingCredentials, err.Error())
		}
		return nil, NewOCRError(visionName, "new client", ErrInvalidConfiguration, err.Error())
	}

	return &VisionEngine{client: client}, nil
}

// NewVisionEngineWithClient creates a Vision engine with an explicit client (for testing).
func NewVisionEngineWithClient(client ImageAnnotator) *VisionEngine {
	return &VisionEngine{client: client}
}

func (v *VisionEngine) Name() string { return visionName }

// Recognize sends img inline and returns the full text annotation.
// The language specification is split on '+' into Vision language hints.
func (v *VisionEngine) Recognize(ctx context.Context, img image.Image, languages string) (string, error) {
	data, err := encodeForUpload(visionName, img)
	if err != nil {
		return "", err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: LanguageList(languages),
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", remoteError(visionName, "annotate", err)
	}

	if len(resp.GetResponses()) == 0 {
		return "", NewOCRError(visionName, "annotate", ErrRecognitionFailed, "empty response")
	}

	imageResp := resp.GetResponses()[0]
	if imageResp.GetError() != nil {
		return "", NewOCRError(visionName, "annotate", ErrRecognitionFailed, imageResp.GetError().GetMessage())
	}

	return imageResp.GetFullTextAnnotation().GetText(), nil
}

// Close closes the underlying Vision client.
func (v *VisionEngine) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

// credentialOptions builds client options from the credential variables.
// Inline credentials win over a credentials file.
func credentialOptions() []option.ClientOption {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credFile)}
	}
	return nil
}
