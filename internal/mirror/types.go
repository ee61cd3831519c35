package mirror

import (
	"encoding/json"
	"time"
)

type MutationState string

const (
	StatePendingLocal MutationState = "pending-local"
	StateSubmitted    MutationState = "submitted"
	StateConfirmed    MutationState = "confirmed"
	StateConflict     MutationState = "conflict"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation is one locally recorded write waiting for (or past) server
// acknowledgement.
type Mutation struct {
	ID         string          `json:"id"`
	Collection string          `json:"collection"`
	Op         Op              `json:"op"`
	RecordID   string          `json:"recordId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	State      MutationState   `json:"state"`
	LastError  string          `json:"lastError,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// State is the whole mirrored dataset persisted as one JSON blob.
type State struct {
	Jobs     []json.RawMessage          `json:"jobs"`
	Feedback []json.RawMessage          `json:"feedback"`
	Projects []json.RawMessage          `json:"projects"`
	Settings map[string]json.RawMessage `json:"settings,omitempty"`

	Investment       float64 `json:"investment"`
	ProjectIDCounter int     `json:"projectIdCounter"`

	ReadFeedback map[string]bool `json:"readFeedback,omitempty"`
	ReadProjects map[string]bool `json:"readProjects,omitempty"`

	Pending  []Mutation `json:"pending,omitempty"`
	LastSync time.Time  `json:"lastSync"`
}
