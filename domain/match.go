package domain

import "time"

type MatchID string

// Match is stored with PetAID < PetBID so an unordered pair has a single key.
type Match struct {
	ID        MatchID   `json:"id"`
	PetAID    PetID     `json:"petAId"`
	PetBID    PetID     `json:"petBId"`
	UserAID   UserID    `json:"userAId"`
	UserBID   UserID    `json:"userBId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PairKey orders two pet ids the way a Match stores them.
func PairKey(p, q PetID) (PetID, PetID) {
	if q < p {
		return q, p
	}
	return p, q
}

// NewMatch builds the normalised Match for two pets, whatever the like direction.
func NewMatch(id MatchID, p, q Pet, at time.Time) Match {
	if q.ID < p.ID {
		p, q = q, p
	}
	return Match{
		ID:        id,
		PetAID:    p.ID,
		PetBID:    q.ID,
		UserAID:   p.OwnerID,
		UserBID:   q.OwnerID,
		CreatedAt: at,
	}
}

// Participants returns the owners of both pets.
func (m Match) Participants() []UserID { return []UserID{m.UserAID, m.UserBID} }

func (m Match) HasUser(userID UserID) bool {
	return m.UserAID == userID || m.UserBID == userID
}

func (m Match) HasPet(petID PetID) bool {
	return m.PetAID == petID || m.PetBID == petID
}

// OtherUser returns the participant facing userID.
func (m Match) OtherUser(userID UserID) (UserID, bool) {
	switch userID {
	case m.UserAID:
		return m.UserBID, true
	case m.UserBID:
		return m.UserAID, true
	}
	return "", false
}
