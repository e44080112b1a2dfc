package services

import (
	"log"
	"sync"
	"time"

	"greenguard-be/models"
	"greenguard-be/store"
)

// PipelineManager hands out one SubmissionPipeline per user session. Each
// user's draft and greenUnits are owned solely by their own pipeline.
type PipelineManager struct {
	mu        sync.Mutex
	pipelines map[string]*SubmissionPipeline

	store      *store.Store
	classifier Classifier
	debounce   time.Duration
}

func NewPipelineManager(st *store.Store, classifier Classifier, debounce time.Duration) *PipelineManager {
	return &PipelineManager{
		pipelines:  make(map[string]*SubmissionPipeline),
		store:      st,
		classifier: classifier,
		debounce:   debounce,
	}
}

// ForUser returns the user's pipeline, creating it on first use
func (m *PipelineManager) ForUser(userID string) *SubmissionPipeline {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.pipelines[userID]; ok {
		return p
	}
	p := NewSubmissionPipeline(m.store, m.classifier, userID, m.debounce, func(r models.Report) {
		log.Printf("Report %s submitted by user %s (%s)", r.ID, r.UserID, r.WasteType)
	})
	m.pipelines[userID] = p
	return p
}
