//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"pawmatch/domain"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	StoreMessage(ctx context.Context, message domain.Message) error
	// GetMessages returns messages in ascending order starting strictly after cursor.
	// The returned cursor is nil once the history is exhausted.
	GetMessages(ctx context.Context, matchID domain.MatchID, cursor *string, limit int) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// StoreMessage persists a message under "msg:{match}:{nanos}:{id}".
// The 19 digit padding keeps lexicographic order chronological and the id
// separates two messages stamped with the same nanosecond.
func (m MessageRepository) StoreMessage(_ context.Context, message domain.Message) error {
	key := append(messagePrefix(message.MatchID), messageSuffix(message)...)
	return m.db.Update(func(txn *badger.Txn) error {
		return setValue(txn, key, message)
	})
}

func (m MessageRepository) GetMessages(_ context.Context, matchID domain.MatchID, cursor *string, limit int) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	more := false
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(matchID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append(append([]byte{}, prefix...), *cursor...)
		}
		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				m.log.Debug("Message page full", "match_id", matchID, "limit", limit)
				more = true
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			var message domain.Message
			if err := item.Value(func(val []byte) error {
				return decode(val, &message)
			}); err != nil {
				return fmt.Errorf("decode message %s: %w", item.Key(), err)
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !more {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}
