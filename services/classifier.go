package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"greenguard-be/config"
	"greenguard-be/models"
)

// ErrClassificationUnavailable means the image-analysis service could not
// be reached or answered with garbage. Callers treat the image as
// unclassified; it is never fatal.
var ErrClassificationUnavailable = errors.New("classification service unavailable")

// MinConfidence is the acceptance threshold below which an automatic
// classification is not trusted as the report's waste type.
const MinConfidence = 50.0

// AnalysisResult is the classification service's judgment of an image.
type AnalysisResult struct {
	IsWastePresent  bool             `json:"isWastePresent"`
	ConfidenceScore float64          `json:"confidenceScore"`
	WasteType       models.WasteType `json:"wasteType,omitempty"`
}

// Accepted reports whether the result clears the automatic-classification
// guard: waste present and confidence at or above the threshold.
func (r *AnalysisResult) Accepted() bool {
	return r != nil && r.IsWastePresent && r.ConfidenceScore >= MinConfidence
}

// Classifier is the contract to the external image-analysis capability.
// Implementations may take arbitrarily long and may fail; the caller must
// never assume success.
type Classifier interface {
	Classify(ctx context.Context, image []byte, mediaType string) (*AnalysisResult, error)
}

// HTTPClassifier calls a remote analysis endpoint with a base64-encoded
// image payload.
type HTTPClassifier struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPClassifier(baseURL, token string) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Classify sends the image to the analysis service and decodes its verdict
func (c *HTTPClassifier) Classify(ctx context.Context, image []byte, mediaType string) (*AnalysisResult, error) {
	payload := map[string]string{
		"image":    base64.StdEncoding.EncodeToString(image),
		"mimeType": mediaType,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrClassificationUnavailable, resp.StatusCode)
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	if result.ConfidenceScore < 0 {
		result.ConfidenceScore = 0
	}
	if result.ConfidenceScore > 100 {
		result.ConfidenceScore = 100
	}
	return &result, nil
}

// DemoClassifier stands in for the real service when no classifier is
// configured. The verdict is derived from the image bytes so repeated
// analysis of the same image agrees with itself.
type DemoClassifier struct{}

func (DemoClassifier) Classify(_ context.Context, image []byte, _ string) (*AnalysisResult, error) {
	if len(image) == 0 {
		return &AnalysisResult{IsWastePresent: false, ConfidenceScore: 0}, nil
	}

	var sum int
	for _, b := range image {
		sum += int(b)
	}
	types := models.WasteTypes
	return &AnalysisResult{
		IsWastePresent:  true,
		ConfidenceScore: 60 + float64(sum%40),
		WasteType:       types[sum%len(types)],
	}, nil
}

// NewClassifier picks the HTTP client when a base URL is configured and
// the demo stand-in otherwise.
func NewClassifier(cfg *config.Settings) Classifier {
	if cfg.ClassifierBaseURL == "" {
		return DemoClassifier{}
	}
	return NewHTTPClassifier(cfg.ClassifierBaseURL, cfg.ClassifierToken)
}
