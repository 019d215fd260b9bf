package types

import "github.com/google/uuid"

// Caller identifies the authenticated user making a request.
// A nil *Caller is an anonymous request.
type Caller struct {
	ID       uuid.UUID
	Username string
	IsStaff  bool
}

// CallerFromClaims converts validated token claims into a Caller
func CallerFromClaims(c *TokenClaims) *Caller {
	return &Caller{ID: c.UserID, Username: c.Username, IsStaff: c.IsStaff}
}
