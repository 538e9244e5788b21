package postgres

import (
	"context"
	"fmt"
	"pawmatch/domain"
	"pawmatch/errors"
	"strconv"
	"strings"
	"time"
)

type MessageRepository struct {
	db *DB
}

func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) StoreMessage(ctx context.Context, message domain.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, match_id, sender_id, content, created_at_ns) VALUES ($1, $2, $3, $4, $5)`,
		message.ID, message.MatchID, message.SenderID, message.Content, message.CreatedAt.UnixNano())
	return mapError(err, "store message %s", message.ID)
}

// GetMessages uses the same "{nanos}:{id}" cursor format as the badger store.
func (r *MessageRepository) GetMessages(ctx context.Context, matchID domain.MatchID, cursor *string, limit int) ([]domain.Message, *string, error) {
	afterNanos, afterID := int64(-1), ""
	if cursor != nil {
		var err error
		if afterNanos, afterID, err = parseCursor(*cursor); err != nil {
			return nil, nil, err
		}
	}
	fetch := 0
	if limit > 0 {
		fetch = limit + 1
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, sender_id, content, created_at_ns FROM messages
		 WHERE match_id = $1 AND (created_at_ns, id) > ($2::bigint, $3::text)
		 ORDER BY created_at_ns, id LIMIT NULLIF($4::int, 0)`,
		matchID, afterNanos, afterID, fetch)
	if err != nil {
		return nil, nil, mapError(err, "messages of %s", matchID)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var message domain.Message
		var nanos int64
		if err = rows.Scan(&message.ID, &message.MatchID, &message.SenderID, &message.Content, &nanos); err != nil {
			return nil, nil, mapError(err, "scan message")
		}
		message.CreatedAt = time.Unix(0, nanos).UTC()
		messages = append(messages, message)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, mapError(err, "messages of %s", matchID)
	}

	if limit <= 0 || len(messages) <= limit {
		return messages, nil, nil
	}
	messages = messages[:limit]
	last := messages[limit-1]
	next := fmt.Sprintf("%019d:%s", last.CreatedAt.UnixNano(), last.ID)
	return messages, &next, nil
}

func parseCursor(cursor string) (int64, string, error) {
	nanos, id, ok := strings.Cut(cursor, ":")
	if !ok {
		return 0, "", fmt.Errorf("cursor %q: %w", cursor, errors.ErrInvalidArgument)
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("cursor %q: %w", cursor, errors.ErrInvalidArgument)
	}
	return n, id, nil
}
