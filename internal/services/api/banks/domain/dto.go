// Package domain holds DTOs and ports for the banks module
package domain

import (
	"time"

	"qbank/internal/core/taxonomy"
)

// BootstrapInput provisions a user with their default question bank
type BootstrapInput struct {
	UserID    int64          `json:"user_id" validate:"required,gt=0" example:"12345"`
	UserEmail string         `json:"user_email,omitempty" validate:"omitempty,email,max=320" example:"teacher@example.com"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// BootstrapOutput describes the provisioned bank and its seeded taxonomy
type BootstrapOutput struct {
	UserID             int64              `json:"user_id" example:"12345"`
	BankID             int64              `json:"bank_id" example:"1730832000000000"`
	BankName           string             `json:"bank_name" example:"Default Question Bank"`
	Description        string             `json:"description,omitempty"`
	IsActive           bool               `json:"is_active" example:"true"`
	TaxonomySetCreated bool               `json:"taxonomy_set_created" example:"true"`
	AvailableTaxonomy  taxonomy.Available `json:"available_taxonomy"`
	CreatedAt          time.Time          `json:"created_at"`
}

// BankDescriptor is one entry in a user's bank list, stored as a jsonb
// array element and probed by containment. Tags are the storage
// contract, do not rename
type BankDescriptor struct {
	BankID      int64     `json:"bank_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUser is the full bootstrap write unit
type NewUser struct {
	UserID        int64
	DefaultBankID int64
	Banks         []BankDescriptor
	UserEmail     string
	Metadata      map[string]any
}
