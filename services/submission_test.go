package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"greenguard-be/models"
	"greenguard-be/store"
)

// fakeClassifier answers from a per-image result table after an optional
// delay, standing in for the remote analysis service.
type fakeClassifier struct {
	mu      sync.Mutex
	delay   time.Duration
	results map[string]*AnalysisResult
	err     error
	calls   int
}

func (f *fakeClassifier) Classify(_ context.Context, image []byte, _ string) (*AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	delay := f.delay
	err := f.err
	result := f.results[string(image)]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &AnalysisResult{}, nil
	}
	copied := *result
	return &copied, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestUser(t *testing.T, st *store.Store) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: "test@greenguard.dev"}
	if err := st.CreateUser(user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestEstimateReward(t *testing.T) {
	cases := []struct {
		name   string
		result *AnalysisResult
		want   int
	}{
		{"no classification", nil, RewardBase},
		{"no waste detected", &AnalysisResult{IsWastePresent: false, ConfidenceScore: 99}, RewardBase},
		{"low confidence", &AnalysisResult{IsWastePresent: true, ConfidenceScore: 10}, RewardReduced},
		{"at standard breakpoint", &AnalysisResult{IsWastePresent: true, ConfidenceScore: 75}, RewardReduced},
		{"above standard breakpoint", &AnalysisResult{IsWastePresent: true, ConfidenceScore: 76}, RewardStandard},
		{"at high breakpoint", &AnalysisResult{IsWastePresent: true, ConfidenceScore: 90}, RewardStandard},
		{"above high breakpoint", &AnalysisResult{IsWastePresent: true, ConfidenceScore: 91}, RewardHigh},
		{"full confidence", &AnalysisResult{IsWastePresent: true, ConfidenceScore: 100}, RewardHigh},
	}

	for _, tc := range cases {
		if got := EstimateReward(tc.result); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
		// pure: a second call must agree
		if got := EstimateReward(tc.result); got != tc.want {
			t.Errorf("%s: expected repeated call to yield %d, got %d", tc.name, tc.want, got)
		}
	}

	// reward never decreases as confidence grows
	prev := 0
	for score := 0.0; score <= 100; score++ {
		r := EstimateReward(&AnalysisResult{IsWastePresent: true, ConfidenceScore: score})
		if r < prev {
			t.Fatalf("Reward dropped from %d to %d at confidence %f", prev, r, score)
		}
		prev = r
	}
}

func TestSubmitCreatesReportAndCredits(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	fake := &fakeClassifier{results: map[string]*AnalysisResult{
		"photo": {IsWastePresent: true, ConfidenceScore: 95, WasteType: models.Plastic},
	}}

	var submitted []models.Report
	p := NewSubmissionPipeline(st, fake, user.ID, time.Millisecond, func(r models.Report) {
		submitted = append(submitted, r)
	})

	p.SelectImage([]byte("photo"), "image/jpeg")
	waitFor(t, "classification result", func() bool { return p.Draft().Result != nil })

	if estimate := p.Draft().RewardEstimate; estimate != RewardHigh {
		t.Errorf("Expected reward estimate %d, got %d", RewardHigh, estimate)
	}

	loc := &models.Location{Lat: 34.05, Lng: -118.24}
	report, err := p.Submit(SubmitInput{Description: "Pile behind the bus stop", Location: loc})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if report.Status != models.StatusPending {
		t.Errorf("Expected new report to be pending, got %s", report.Status)
	}
	if report.WasteType != models.Plastic {
		t.Errorf("Expected classified waste type, got %s", report.WasteType)
	}
	if report.Confidence != 95 {
		t.Errorf("Expected confidence 95, got %f", report.Confidence)
	}

	if user.GreenUnits != RewardHigh {
		t.Errorf("Expected user to be credited %d greenUnits, got %d", RewardHigh, user.GreenUnits)
	}
	reports, err := st.UserReports(user.ID)
	if err != nil {
		t.Fatalf("UserReports failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Expected exactly one stored report, got %d", len(reports))
	}
	if len(submitted) != 1 {
		t.Fatalf("Expected the submission callback to fire exactly once, got %d", len(submitted))
	}

	draft := p.Draft()
	if draft.HasImage || draft.Staged || draft.Result != nil {
		t.Error("Expected draft to be cleared after submission")
	}
}

func TestSubmitRequiresImageOrDescription(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	p := NewSubmissionPipeline(st, &fakeClassifier{}, user.ID, time.Millisecond, nil)

	_, err := p.Submit(SubmitInput{})
	if !errors.Is(err, ErrEmptySubmission) {
		t.Fatalf("Expected ErrEmptySubmission, got %v", err)
	}
	if user.GreenUnits != 0 {
		t.Errorf("Expected no credit on rejected submission, got %d", user.GreenUnits)
	}
}

func TestDescriptionOnlySubmission(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	p := NewSubmissionPipeline(st, &fakeClassifier{}, user.ID, time.Millisecond, nil)

	report, err := p.Submit(SubmitInput{Description: "Overflowing bin", ManualType: models.Organic})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if report.WasteType != models.Organic {
		t.Errorf("Expected manual waste type, got %s", report.WasteType)
	}
	if user.GreenUnits != RewardBase {
		t.Errorf("Expected base reward %d without classification, got %d", RewardBase, user.GreenUnits)
	}
}

func TestLowConfidenceBlocksAutoType(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	fake := &fakeClassifier{results: map[string]*AnalysisResult{
		"blurry": {IsWastePresent: true, ConfidenceScore: 30, WasteType: models.Plastic},
	}}
	p := NewSubmissionPipeline(st, fake, user.ID, time.Millisecond, nil)

	p.SelectImage([]byte("blurry"), "image/jpeg")
	waitFor(t, "classification result", func() bool { return p.Draft().Result != nil })

	if _, err := p.Submit(SubmitInput{Description: "Not sure"}); !errors.Is(err, ErrNoWasteDetected) {
		t.Fatalf("Expected ErrNoWasteDetected without a manual type, got %v", err)
	}

	report, err := p.Submit(SubmitInput{Description: "Not sure", ManualType: models.Glass})
	if err != nil {
		t.Fatalf("Submit with manual override failed: %v", err)
	}
	if report.WasteType != models.Glass {
		t.Errorf("Expected manual override to win, got %s", report.WasteType)
	}
	if user.GreenUnits != RewardReduced {
		t.Errorf("Expected reduced reward %d at low confidence, got %d", RewardReduced, user.GreenUnits)
	}
}

func TestNewSelectionSupersedesInFlight(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	fake := &fakeClassifier{
		delay: 100 * time.Millisecond,
		results: map[string]*AnalysisResult{
			"first":  {IsWastePresent: true, ConfidenceScore: 95, WasteType: models.Plastic},
			"second": {IsWastePresent: true, ConfidenceScore: 60, WasteType: models.Glass},
		},
	}
	p := NewSubmissionPipeline(st, fake, user.ID, time.Millisecond, nil)

	p.SelectImage([]byte("first"), "image/jpeg")
	waitFor(t, "first classification to start", func() bool { return fake.callCount() >= 1 })

	// replacing the image while the first classification is in flight must
	// discard the first verdict entirely
	p.SelectImage([]byte("second"), "image/jpeg")
	waitFor(t, "second classification result", func() bool { return p.Draft().Result != nil })

	// give the superseded result time to land and be dropped
	time.Sleep(150 * time.Millisecond)

	draft := p.Draft()
	if draft.Result.WasteType != models.Glass {
		t.Errorf("Expected the second image's verdict, got %s", draft.Result.WasteType)
	}
	if draft.Result.ConfidenceScore != 60 {
		t.Errorf("Expected the second image's confidence, got %f", draft.Result.ConfidenceScore)
	}
}

func TestStageConfirmCancel(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	fake := &fakeClassifier{results: map[string]*AnalysisResult{
		"photo": {IsWastePresent: true, ConfidenceScore: 80, WasteType: models.Metal},
	}}
	p := NewSubmissionPipeline(st, fake, user.ID, time.Millisecond, nil)

	if _, err := p.Confirm(); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("Expected ErrNothingStaged before staging, got %v", err)
	}

	p.SelectImage([]byte("photo"), "image/jpeg")
	waitFor(t, "classification result", func() bool { return p.Draft().Result != nil })

	if err := p.Stage(SubmitInput{Description: "Scrap metal"}); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if !p.Draft().Staged {
		t.Fatal("Expected draft to show a staged submission")
	}

	p.Cancel()
	if p.Draft().Staged {
		t.Fatal("Expected cancel to discard the staged submission")
	}
	if _, err := p.Confirm(); !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("Expected ErrNothingStaged after cancel, got %v", err)
	}
	if user.GreenUnits != 0 {
		t.Errorf("Expected no credit after cancel, got %d", user.GreenUnits)
	}

	if err := p.Stage(SubmitInput{Description: "Scrap metal"}); err != nil {
		t.Fatalf("Re-stage failed: %v", err)
	}
	report, err := p.Confirm()
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if report.WasteType != models.Metal {
		t.Errorf("Expected classified type on confirm, got %s", report.WasteType)
	}
	if user.GreenUnits != RewardStandard {
		t.Errorf("Expected a single credit of %d, got %d", RewardStandard, user.GreenUnits)
	}
}

func TestStageRejectsUnknownWasteType(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	p := NewSubmissionPipeline(st, &fakeClassifier{}, user.ID, time.Millisecond, nil)

	if err := p.Stage(SubmitInput{Description: "Something", ManualType: "Nuclear"}); err == nil {
		t.Fatal("Expected an error for an unknown waste type")
	}
	if p.Draft().Staged {
		t.Error("Expected nothing to be staged after a rejected stage")
	}
}

func TestResetDiscardsDraftAndPendingClassification(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	fake := &fakeClassifier{
		delay: 50 * time.Millisecond,
		results: map[string]*AnalysisResult{
			"photo": {IsWastePresent: true, ConfidenceScore: 95, WasteType: models.Plastic},
		},
	}
	p := NewSubmissionPipeline(st, fake, user.ID, time.Millisecond, nil)

	p.SelectImage([]byte("photo"), "image/jpeg")
	p.Reset()

	draft := p.Draft()
	if draft.HasImage || draft.Result != nil || draft.PreviewURL != "" {
		t.Error("Expected reset to clear the draft")
	}
	if draft.RewardEstimate != RewardBase {
		t.Errorf("Expected reward estimate to fall back to %d, got %d", RewardBase, draft.RewardEstimate)
	}

	// a classification scheduled before the reset must not resurface
	time.Sleep(100 * time.Millisecond)
	if p.Draft().Result != nil {
		t.Error("Expected no classification result after reset")
	}
}

func TestClassifierFailureSurfacesAsDraftError(t *testing.T) {
	st := store.New()
	user := newTestUser(t, st)
	fake := &fakeClassifier{err: errors.New("boom")}
	p := NewSubmissionPipeline(st, fake, user.ID, time.Millisecond, nil)

	p.SelectImage([]byte("photo"), "image/jpeg")
	waitFor(t, "classification error", func() bool { return p.Draft().Error != "" })

	draft := p.Draft()
	if draft.Result != nil {
		t.Error("Expected no result after a classification failure")
	}
	if !strings.Contains(draft.Error, ErrClassificationUnavailable.Error()) {
		t.Errorf("Expected an unavailability error, got %q", draft.Error)
	}

	// the failure is not fatal: a manual submission still goes through
	report, err := p.Submit(SubmitInput{Description: "Dump site", ManualType: models.Other})
	if err != nil {
		t.Fatalf("Submit after classifier failure failed: %v", err)
	}
	if report.WasteType != models.Other {
		t.Errorf("Expected manual waste type, got %s", report.WasteType)
	}
	if user.GreenUnits != RewardBase {
		t.Errorf("Expected base reward %d, got %d", RewardBase, user.GreenUnits)
	}
}
