package domain

import (
	"slices"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// MaxRecentViews bounds User.RecentViews.
const MaxRecentViews = 5

// User models a registered portal member.
type User struct {
	ID           string    `json:"id" bson:"id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Name         string    `json:"name" bson:"name"`
	Department   string    `json:"department" bson:"department"`
	Year         string    `json:"year" bson:"year"`
	Role         string    `json:"role" bson:"role"`
	Downloads    int       `json:"downloads" bson:"downloads"`
	RecentViews  []string  `json:"recentViews" bson:"recentViews"`
	Bookmarks    []string  `json:"bookmarks" bson:"bookmarks"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasBookmark reports whether resourceID is in the user's bookmarks.
func (u *User) HasBookmark(resourceID string) bool {
	return slices.Contains(u.Bookmarks, resourceID)
}

// PushRecentView returns views with id moved (or inserted) at the front,
// without duplicates and capped at MaxRecentViews. The input is not modified.
func PushRecentView(views []string, id string) []string {
	out := make([]string, 0, MaxRecentViews)
	out = append(out, id)
	for _, v := range views {
		if len(out) == MaxRecentViews {
			break
		}
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ToggleBookmark removes id from bookmarks if present, otherwise appends it.
// The second return value reports whether id is bookmarked afterwards.
func ToggleBookmark(bookmarks []string, id string) ([]string, bool) {
	if i := slices.Index(bookmarks, id); i >= 0 {
		return slices.Delete(slices.Clone(bookmarks), i, i+1), false
	}
	return append(slices.Clone(bookmarks), id), true
}
