package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ddxlab/ddxbrain/internal/interfaces"
)

const (
	// DescribePrompt steers the captioning model toward clinically useful output.
	DescribePrompt = `You are a medical expert analyzing a medical image or diagram.
Describe what you see, including anatomical structures, conditions or symptoms shown,
diagnostic information or measurements, any text or labels in the image, and the type
of medical image (X-ray, diagram, chart, etc.). Be precise and use medical terminology
where appropriate.`

	defaultTimeout = 60 * time.Second
)

// describeResponse is the captioning endpoint's reply.
type describeResponse struct {
	Description string `json:"description"`
}

// HTTPDescriber captions images by posting them to a vision endpoint.
type HTTPDescriber struct {
	endpoint string
	client   *http.Client
	logger   interfaces.Logger
}

// NewHTTPDescriber creates a describer for the given captioning endpoint.
func NewHTTPDescriber(endpoint string, logger interfaces.Logger) *HTTPDescriber {
	return &HTTPDescriber{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,
	}
}

// Describe uploads the image and the prompt as a multipart form and returns
// the endpoint's description.
func (d *HTTPDescriber) Describe(ctx context.Context, imagePath string) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.WriteField("prompt", DescribePrompt); err != nil {
		return "", fmt.Errorf("failed to write prompt field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	d.logger.Debug("Requesting image caption", "image", imagePath, "endpoint", d.endpoint)
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("captioning request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			d.logger.Warn("Failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("captioning endpoint returned %d: %s", resp.StatusCode, snippet)
	}

	var decoded describeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode caption response: %w", err)
	}
	if decoded.Description == "" {
		return "", fmt.Errorf("captioning endpoint returned an empty description")
	}

	return decoded.Description, nil
}
