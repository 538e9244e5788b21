package services

import (
	"context"
	"pawmatch/contract"
	"pawmatch/domain"
	"pawmatch/runtime"
)

// IChatService is what the transports see of the realtime router.
type IChatService interface {
	SendMessage(ctx context.Context, matchID domain.MatchID, senderID domain.UserID, content string) (domain.Message, error)
	GetMessages(ctx context.Context, matchID domain.MatchID, callerID domain.UserID, cursor *string, limit int) ([]domain.Message, *string, error)
	Connect(conn contract.Connection)
	Join(ctx context.Context, matchID domain.MatchID, conn contract.Connection) error
	Leave(matchID domain.MatchID, connID string)
	Disconnect(connID string)
}

type ChatService struct {
	router *runtime.Router
}

func NewChatService(r *runtime.Router) *ChatService {
	return &ChatService{router: r}
}

func (s *ChatService) SendMessage(ctx context.Context, matchID domain.MatchID, senderID domain.UserID, content string) (domain.Message, error) {
	return s.router.SendMessage(ctx, matchID, senderID, content)
}

func (s *ChatService) GetMessages(ctx context.Context, matchID domain.MatchID, callerID domain.UserID, cursor *string, limit int) ([]domain.Message, *string, error) {
	return s.router.GetMessages(ctx, matchID, callerID, cursor, limit)
}

// Connect registers the connection for user level pushes before it joins any channel.
func (s *ChatService) Connect(conn contract.Connection) {
	s.router.Connect(conn)
}

func (s *ChatService) Join(ctx context.Context, matchID domain.MatchID, conn contract.Connection) error {
	return s.router.Join(ctx, matchID, conn)
}

func (s *ChatService) Leave(matchID domain.MatchID, connID string) {
	s.router.Leave(matchID, connID)
}

func (s *ChatService) Disconnect(connID string) {
	s.router.Disconnect(connID)
}
