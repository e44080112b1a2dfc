package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"greenguard-be/models"
	"greenguard-be/store"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrInvalidToken means a verification token does not resolve to an
// actionable report. Nothing is mutated.
var ErrInvalidToken = errors.New("verification token does not resolve to an actionable report")

// TokenActionMarkCleaned is the only action field-confirmation tokens carry.
const TokenActionMarkCleaned = "mark-cleaned"

// VerificationToken is the payload encoded into the scannable code. It is
// derivable from the report id alone, so a token can be re-issued
// deterministically. Unsigned on purpose: see the design notes.
type VerificationToken struct {
	ReportID string `json:"reportId"`
	Action   string `json:"action"`
}

// VerificationService is the organization-side review workflow. It is the
// only mutator of report status after submission.
type VerificationService struct {
	store      *store.Store
	classifier Classifier
	delay      time.Duration
	client     *http.Client
}

func NewVerificationService(st *store.Store, classifier Classifier, delay time.Duration) *VerificationService {
	return &VerificationService{
		store:      st,
		classifier: classifier,
		delay:      delay,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Analyze re-runs classification against the report's stored image and
// returns the result for the reviewer. Advisory only: the report's stored
// wasteType and confidence are never touched.
func (s *VerificationService) Analyze(ctx context.Context, reportID string) (*AnalysisResult, error) {
	report, err := s.store.GetReport(reportID)
	if err != nil {
		return nil, err
	}

	image, mediaType, err := s.imageBytes(ctx, report.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
	}
	if len(image) == 0 {
		// no stored image to judge; the reviewer decides from the
		// report itself
		return &AnalysisResult{IsWastePresent: false, ConfidenceScore: 0}, nil
	}

	return s.classifier.Classify(ctx, image, mediaType)
}

// imageBytes resolves a stored image reference into raw bytes: embedded
// data URLs are decoded in place, remote references are fetched.
func (s *VerificationService) imageBytes(ctx context.Context, imageURL string) ([]byte, string, error) {
	if imageURL == "" {
		return nil, "", nil
	}

	if strings.HasPrefix(imageURL, "data:") {
		rest := strings.TrimPrefix(imageURL, "data:")
		sep := strings.Index(rest, ";base64,")
		if sep < 0 {
			return nil, "", nil
		}
		mediaType := rest[:sep]
		image, err := base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
		if err != nil {
			return nil, "", err
		}
		return image, mediaType, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.New("image fetch failed")
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	return image, mediaType, nil
}

// Accept resolves a pending report as accepted after a simulated
// processing delay. Fails with ErrInvalidTransition on terminal reports.
func (s *VerificationService) Accept(reportID string) (models.Report, error) {
	time.Sleep(s.delay)
	return s.store.TransitionReport(reportID, models.StatusAccepted)
}

// Reject resolves a pending report as rejected after a simulated
// processing delay. Fails with ErrInvalidTransition on terminal reports.
func (s *VerificationService) Reject(reportID string) (models.Report, error) {
	time.Sleep(s.delay)
	return s.store.TransitionReport(reportID, models.StatusRejected)
}

// IssueVerificationToken produces the opaque field-confirmation payload
// for a report. No server-side state is involved, so issuing twice for the
// same report yields the same token.
func (s *VerificationService) IssueVerificationToken(reportID string) string {
	payload, _ := json.Marshal(VerificationToken{
		ReportID: reportID,
		Action:   TokenActionMarkCleaned,
	})
	return base64.RawURLEncoding.EncodeToString(payload)
}

// TokenQR renders the verification token as a PNG QR code
func (s *VerificationService) TokenQR(reportID string) ([]byte, error) {
	payload, err := json.Marshal(VerificationToken{
		ReportID: reportID,
		Action:   TokenActionMarkCleaned,
	})
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(payload), qrcode.Medium, 360)
}

// ConfirmVerificationToken is the field-confirmation counterpart: a valid
// token advances the report one step toward Cleaned (Pending becomes
// Accepted, Accepted becomes Cleaned). Tokens for unknown or terminal
// reports fail with ErrInvalidToken and have no side effects.
func (s *VerificationService) ConfirmVerificationToken(token string) (models.Report, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return models.Report{}, ErrInvalidToken
	}
	var payload VerificationToken
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Action != TokenActionMarkCleaned {
		return models.Report{}, ErrInvalidToken
	}

	report, err := s.store.GetReport(payload.ReportID)
	if err != nil {
		return models.Report{}, ErrInvalidToken
	}

	var next models.ReportStatus
	switch report.Status {
	case models.StatusPending:
		next = models.StatusAccepted
	case models.StatusAccepted:
		next = models.StatusCleaned
	default:
		return models.Report{}, ErrInvalidToken
	}

	updated, err := s.store.TransitionReport(payload.ReportID, next)
	if err != nil {
		return models.Report{}, ErrInvalidToken
	}
	return updated, nil
}
