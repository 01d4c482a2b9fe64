package models

import (
	"time"

	"github.com/dmitrijs2005/myday/internal/timex"
)

// UserProfile lives only in the remote store.
type UserProfile struct {
	OwnerID     string
	Email       string
	DisplayName string
	CreatedAt   time.Time
}

func (p *UserProfile) Fields() map[string]any {
	return map[string]any{
		"uid":         p.OwnerID,
		"email":       p.Email,
		"displayName": p.DisplayName,
		"createdAt":   timex.Millis(p.CreatedAt),
	}
}

func ProfileFromFields(owner string, f map[string]any) *UserProfile {
	return &UserProfile{
		OwnerID:     owner,
		Email:       stringField(f, "email"),
		DisplayName: stringField(f, "displayName"),
		CreatedAt:   timex.FromMillis(int64Field(f, "createdAt")),
	}
}
