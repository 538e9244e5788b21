package server

import "pawmatch/domain"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createPetRequest struct {
	Name    string `json:"name" validate:"required,max=64"`
	Species string `json:"species" validate:"required,max=32"`
	City    string `json:"city" validate:"max=64"`
}

type swipeAction string

const (
	actionLike swipeAction = "like"
	actionPass swipeAction = "pass"
)

type swipeRequest struct {
	FromPetID domain.PetID `json:"fromPetId" validate:"required"`
	ToPetID   domain.PetID `json:"toPetId" validate:"required"`
	Action    swipeAction  `json:"action" validate:"required,oneof=like pass"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type messagesResponse struct {
	Messages []domain.Message `json:"messages"`
	Cursor   *string          `json:"cursor"`
}
