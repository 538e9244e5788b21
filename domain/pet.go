// Package domain contains core concepts of the matching system.
// Types here carry no runtime, network, or storage logic.
package domain

import "time"

type (
	PetID  string
	UserID string
)

// Pet is owned by the profile collaborator; the matching core only reads it
// to resolve ownership.
type Pet struct {
	ID        PetID     `json:"id"`
	OwnerID   UserID    `json:"ownerId"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
