package models

import (
	"errors"
	"time"
)

// WasteType enum
type WasteType string

const (
	Plastic WasteType = "Plastic"
	Organic WasteType = "Organic"
	EWaste  WasteType = "E-waste"
	Metal   WasteType = "Metal"
	Glass   WasteType = "Glass"
	Paper   WasteType = "Paper"
	Other   WasteType = "Other"
)

// WasteTypes lists every valid classification label.
var WasteTypes = []WasteType{Plastic, Organic, EWaste, Metal, Glass, Paper, Other}

// IsValidWasteType checks whether a label belongs to the waste-type set
func IsValidWasteType(t WasteType) bool {
	for _, w := range WasteTypes {
		if w == t {
			return true
		}
	}
	return false
}

// ReportStatus enum
type ReportStatus string

const (
	StatusPending  ReportStatus = "Pending"
	StatusAccepted ReportStatus = "Accepted"
	StatusRejected ReportStatus = "Rejected"
	StatusCleaned  ReportStatus = "Cleaned"
)

// ErrInvalidTransition is returned when a status change violates the
// report lifecycle. The report is left unchanged.
var ErrInvalidTransition = errors.New("invalid report status transition")

// Location is a lat/lng pair attached to a report at submission time.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Report represents a single waste observation submitted by a user
type Report struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	WasteType   WasteType    `json:"wasteType,omitempty"`
	Confidence  float64      `json:"confidence,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      ReportStatus `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Pending may become Accepted or Rejected; Accepted may become Cleaned.
// Rejected and Cleaned are absorbing.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusAccepted || next == StatusRejected
	case StatusAccepted:
		return next == StatusCleaned
	default:
		return false
	}
}

// Transition advances the report's status, failing with
// ErrInvalidTransition if the lifecycle forbids it.
func (r *Report) Transition(next ReportStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.Status = next
	return nil
}

// Terminal reports whether no further transition is possible from s.
func (s ReportStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCleaned
}
