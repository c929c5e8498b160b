package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type DomainStatus string

const (
	DomainStatusPending   DomainStatus = "pending"
	DomainStatusVerifying DomainStatus = "verifying"
	DomainStatusActive    DomainStatus = "active"
	DomainStatusFailed    DomainStatus = "failed"
)

type CustomDomain struct {
	ID                uuid.UUID
	ProjectID         uuid.UUID
	Domain            string
	VerificationToken string
	Verified          bool
	Status            DomainStatus
	DNSRecords        map[string]interface{}
	VerifiedAt        sql.NullTime
	CreatedAt         time.Time
}
