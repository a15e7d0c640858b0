package domain

import (
	"context"
	"time"
)

// Tenant is the isolation boundary. Tenants are seeded at start-up and never
// updated.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"createdAt"`
}

type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*Tenant, error)
}
