package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"greenguard-be/models"
	"greenguard-be/store"
)

// Reward tiers, in greenUnits
const (
	RewardBase     = 5  // no classification, or no waste detected
	RewardReduced  = 40 // waste present, confidence <= 75
	RewardStandard = 50 // confidence > 75
	RewardHigh     = 70 // confidence > 90
)

// Reward confidence breakpoints
const (
	StandardConfidence = 75.0
	HighConfidence     = 90.0
)

var (
	// ErrEmptySubmission means the draft has neither an image nor a
	// description; the submission is blocked.
	ErrEmptySubmission = errors.New("submission requires an image or a description")

	// ErrNoWasteDetected means classification succeeded but did not meet
	// the acceptance threshold. Surfaced as a retry prompt; a manual
	// waste-type override still goes through.
	ErrNoWasteDetected = errors.New("no significant waste detected, or confidence too low")

	// ErrNothingStaged means Confirm was called with no staged submission.
	ErrNothingStaged = errors.New("no submission staged for confirmation")
)

// EstimateReward computes the greenUnits reward for the latest
// classification result. Pure: identical inputs always yield identical
// rewards.
func EstimateReward(result *AnalysisResult) int {
	if result == nil || !result.IsWastePresent {
		return RewardBase
	}
	switch {
	case result.ConfidenceScore > HighConfidence:
		return RewardHigh
	case result.ConfidenceScore > StandardConfidence:
		return RewardStandard
	default:
		return RewardReduced
	}
}

// SubmitInput carries the user-controlled fields of a submission.
type SubmitInput struct {
	Description string
	ManualType  models.WasteType
	Location    *models.Location
}

// DraftView is a read-only snapshot of the in-progress draft.
type DraftView struct {
	HasImage       bool             `json:"hasImage"`
	PreviewURL     string           `json:"previewUrl,omitempty"`
	Analyzing      bool             `json:"analyzing"`
	Result         *AnalysisResult  `json:"result,omitempty"`
	RewardEstimate int              `json:"rewardEstimate"`
	Staged         bool             `json:"staged"`
	Error          string           `json:"error,omitempty"`
}

// stagedSubmission is the pending payload awaiting Confirm. The pipeline
// owns it; there is no process-wide confirmation slot.
type stagedSubmission struct {
	description string
	wasteType   models.WasteType
	confidence  float64
	location    *models.Location
	imageURL    string
	reward      int
}

// SubmissionPipeline owns one user session's report draft: the selected
// image, its debounced classification, the reward estimate, and the staged
// confirmation. All state is guarded by mu.
type SubmissionPipeline struct {
	mu sync.Mutex

	store      *store.Store
	classifier Classifier
	userID     string
	debounce   time.Duration

	// onReportSubmitted fires exactly once per successful submission.
	onReportSubmitted func(models.Report)

	// seq increases on every image selection and reset; a classification
	// result is applied only if its sequence still matches.
	seq   uint64
	timer *time.Timer

	image      []byte
	mediaType  string
	previewURL string
	analyzing  bool
	result     *AnalysisResult
	lastErr    error
	staged     *stagedSubmission
}

func NewSubmissionPipeline(st *store.Store, classifier Classifier, userID string, debounce time.Duration, onSubmitted func(models.Report)) *SubmissionPipeline {
	return &SubmissionPipeline{
		store:             st,
		classifier:        classifier,
		userID:            userID,
		debounce:          debounce,
		onReportSubmitted: onSubmitted,
	}
}

// SelectImage stores the raw image and its preview reference, discards any
// prior classification state, and schedules a debounced classification.
// Selecting a new image invalidates any in-flight classification of the
// previous one.
func (p *SubmissionPipeline) SelectImage(image []byte, mediaType string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	seq := p.seq

	p.image = image
	p.mediaType = mediaType
	p.previewURL = fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(image))
	p.result = nil
	p.lastErr = nil
	p.analyzing = false
	p.staged = nil

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		p.classify(seq)
	})
}

// classify runs the external classification for the selection identified
// by seq and applies the result only if that selection is still current.
func (p *SubmissionPipeline) classify(seq uint64) {
	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return
	}
	image := p.image
	mediaType := p.mediaType
	p.analyzing = true
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := p.classifier.Classify(ctx, image, mediaType)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		// superseded while in flight; drop the result
		return
	}
	p.analyzing = false
	if err != nil {
		p.lastErr = fmt.Errorf("%w: %v", ErrClassificationUnavailable, err)
		return
	}
	p.result = result
	if !result.Accepted() {
		p.lastErr = ErrNoWasteDetected
	} else {
		p.lastErr = nil
	}
}

// Draft returns a snapshot of the current draft state
func (p *SubmissionPipeline) Draft() DraftView {
	p.mu.Lock()
	defer p.mu.Unlock()

	view := DraftView{
		HasImage:       len(p.image) > 0,
		PreviewURL:     p.previewURL,
		Analyzing:      p.analyzing,
		Result:         p.result,
		RewardEstimate: EstimateReward(p.result),
		Staged:         p.staged != nil,
	}
	if p.lastErr != nil {
		view.Error = p.lastErr.Error()
	}
	return view
}

// Stage validates the draft plus the user's input and holds the resulting
// payload for confirmation. It fails with ErrEmptySubmission when there is
// neither an image nor a description, and with ErrNoWasteDetected when the
// only available waste type is a rejected automatic classification.
func (p *SubmissionPipeline) Stage(input SubmitInput) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.image) == 0 && input.Description == "" {
		return ErrEmptySubmission
	}

	wasteType := input.ManualType
	if wasteType != "" && !models.IsValidWasteType(wasteType) {
		return fmt.Errorf("unknown waste type %q", wasteType)
	}
	if wasteType == "" && p.result != nil {
		if !p.result.Accepted() {
			return ErrNoWasteDetected
		}
		wasteType = p.result.WasteType
	}

	staged := &stagedSubmission{
		description: input.Description,
		wasteType:   wasteType,
		location:    input.Location,
		imageURL:    p.previewURL,
		reward:      EstimateReward(p.result),
	}
	if p.result != nil {
		staged.confidence = p.result.ConfidenceScore
	}
	p.staged = staged
	return nil
}

// Confirm materializes the staged submission: it creates the Pending
// report and credits the user's greenUnits as one indivisible store
// update, then fires onReportSubmitted exactly once.
func (p *SubmissionPipeline) Confirm() (models.Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.staged == nil {
		return models.Report{}, ErrNothingStaged
	}

	report := &models.Report{
		UserID:      p.userID,
		ImageURL:    p.staged.imageURL,
		Location:    p.staged.location,
		WasteType:   p.staged.wasteType,
		Confidence:  p.staged.confidence,
		Description: p.staged.description,
		Status:      models.StatusPending,
		Timestamp:   time.Now(),
	}

	if err := p.store.CreateReportAndCredit(report, p.staged.reward); err != nil {
		return models.Report{}, err
	}

	submitted := *report
	p.clearLocked()
	if p.onReportSubmitted != nil {
		p.onReportSubmitted(submitted)
	}
	return submitted, nil
}

// Cancel discards the staged submission without touching the draft
func (p *SubmissionPipeline) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staged = nil
}

// Submit is the one-shot path: stage and confirm in a single call.
func (p *SubmissionPipeline) Submit(input SubmitInput) (models.Report, error) {
	if err := p.Stage(input); err != nil {
		return models.Report{}, err
	}
	return p.Confirm()
}

// Reset discards the in-progress draft, invalidating any pending or
// in-flight classification. Already-submitted reports are unaffected.
func (p *SubmissionPipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

func (p *SubmissionPipeline) clearLocked() {
	p.seq++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.image = nil
	p.mediaType = ""
	p.previewURL = ""
	p.analyzing = false
	p.result = nil
	p.lastErr = nil
	p.staged = nil
}
