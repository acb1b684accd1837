package analysis

import "time"

// ID identifier type
type ID string

// Analysis is the audit entry of one successful pipeline run.
type Analysis struct {
	ID            ID        `json:"id"`
	UserID        string    `json:"uid"`
	Kind          string    `json:"kind"` // bill | audio
	Model         string    `json:"model"`
	Attempts      int       `json:"attempts"`
	PromptVersion string    `json:"promptVersion"`
	MediaURL      string    `json:"mediaUrl,omitempty"`
	Result        string    `json:"result"` // JSON of the validated result
	CreatedAt     time.Time `json:"createdAt"`
}

// Failure is a persisted pipeline failure.
type Failure struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"uid"`
	Kind      string    `json:"kind"`      // bill | audio
	ErrorKind string    `json:"errorKind"` // configuration | transport | ...
	Model     string    `json:"model,omitempty"`
	Attempts  int       `json:"attempts"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
