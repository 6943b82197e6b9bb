package store

import "context"

// Plan is the billing plan of a user. Computed by the billing system; the
// engine only reads it to gate premium context features.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

// User represents a registered user. Only the fields the memory engine needs
// are modeled here; profile and credential management live elsewhere.
type User struct {
	ID        int32
	Username  string
	Plan      Plan
	RowStatus string // NORMAL/ARCHIVED
	CreatedTs int64
}

// FindUser specifies the conditions for finding users.
type FindUser struct {
	ID       *int32
	Username *string
}

// ListUsers lists users by find conditions.
func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser gets a user by find conditions, with caching.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.ID != nil {
		if user, ok := s.userCache.Get(*find.ID); ok {
			return user.(*User), nil
		}
	}

	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.userCache.Set(user.ID, user)
	return user, nil
}
