package model

import "time"

// AccessGrant authorizes one email address to view one document through an opaque token.
type AccessGrant struct {
	ID         string     `json:"id"`
	Token      string     `json:"token"`
	Email      string     `json:"email"`
	DocumentID string     `json:"document_id,omitempty"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	// DocumentTitle is filled by listing queries that join the document.
	DocumentTitle string `json:"document_title,omitempty"`
}

// ExpiredAt reports whether the grant has an expiry at or before now.
func (g *AccessGrant) ExpiredAt(now time.Time) bool {
	return g.ExpiresAt != nil && !g.ExpiresAt.After(now)
}

// GrantPatch carries the operator-editable fields of a grant. Nil means unchanged.
type GrantPatch struct {
	Email     *string
	ExpiresAt *time.Time
}
