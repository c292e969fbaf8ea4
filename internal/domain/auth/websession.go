package auth

import "time"

// WebSession binds an opaque browser cookie to a principal. It carries no
// role or permissions: authorization is always recomputed from the profile,
// never from the web session record.
type WebSession struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
