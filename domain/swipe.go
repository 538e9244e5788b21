package domain

import "time"

type SwipeAction string

const (
	SwipeLike SwipeAction = "like"
	SwipePass SwipeAction = "pass"
)

func (a SwipeAction) Valid() bool {
	return a == SwipeLike || a == SwipePass
}

// Like is a one-directional interest signal, unique per ordered pet pair.
type Like struct {
	FromPetID PetID     `json:"fromPetId"`
	ToPetID   PetID     `json:"toPetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Pass hides a pet from the swiping pet's feed. It never takes part in matching.
type Pass struct {
	FromPetID PetID     `json:"fromPetId"`
	ToPetID   PetID     `json:"toPetId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeResult is what a swipe returns to the client.
type LikeResult struct {
	IsMatch bool   `json:"isMatch"`
	Match   *Match `json:"match,omitempty"`
}
