package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the bearer token.
// TenantID scopes every query this service runs.
type Principal struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Role     string
}
