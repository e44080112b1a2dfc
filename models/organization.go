package models

// Organization is the verifying actor in the review workflow. It owns no
// reports directly and is read-only in this core.
type Organization struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
