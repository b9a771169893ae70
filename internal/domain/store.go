package domain

import "time"

// TargetStore is a destination shop registered in the companion onboarding
// service. Credentials are fetched fresh from the directory per export call and
// treated as current truth at call time.
type TargetStore struct {
	ID          string    `json:"id"`
	Shop        string    `json:"shop"`
	Name        string    `json:"name"`
	AccessToken string    `json:"accessToken"`
	Scope       string    `json:"scope,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
