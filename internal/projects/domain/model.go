package domain

import (
	"fmt"
	"strings"
	"time"
)

const MaxDescriptionLength = 500

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Project is a piece of work looking for collaborators. Status transitions
// are caller-driven; the engine only validates the enum.
type Project struct {
	ProjectID      string    `json:"project_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills"`
	Status         Status    `json:"status"`
	OwnerID        string    `json:"owner_id"`
	Collaborators  []string  `json:"collaborators"`
	Budget         string    `json:"budget,omitempty"`
	Deadline       string    `json:"deadline,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Filter struct {
	Query   string
	Skills  []string
	Status  Status // empty matches all statuses
	OwnerID string
}

// Update carries project edits. Nil pointer / nil slice means "unchanged".
type Update struct {
	Name           *string
	Description    *string
	RequiredSkills []string
	Status         *Status
	Budget         *string
	Deadline       *string
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidArgument)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: description required", ErrInvalidArgument)
	}
	if len(p.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidArgument, MaxDescriptionLength)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, p.Status)
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return fmt.Errorf("%w: owner required", ErrInvalidArgument)
	}
	return nil
}
