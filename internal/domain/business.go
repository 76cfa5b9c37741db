package domain

// Business is the read-only view of a business record the scheduler depends on.
type Business struct {
	ID      string
	OwnerID string
	Name    string
}

// IsOwner reports whether userID owns the business.
func (b *Business) IsOwner(userID string) bool {
	return userID != "" && b.OwnerID == userID
}
