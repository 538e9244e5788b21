package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Field aliases seen across transports. The first present key wins.
var (
	idKeys        = []string{"id", "messageId", "message_id", "_id"}
	matchKeys     = []string{"matchId", "match_id", "chatId", "chat_id", "room"}
	senderKeys    = []string{"senderId", "sender_id", "author", "userId", "user_id"}
	contentKeys   = []string{"content", "text", "body", "message"}
	createdAtKeys = []string{"createdAt", "created_at", "at", "timestamp"}
)

// NormalizeMessage maps a loosely shaped payload onto the canonical Message.
// Missing fields are left zero; callers decide which ones they require.
func NormalizeMessage(raw map[string]any) (Message, error) {
	var msg Message
	msg.ID = MessageID(firstString(raw, idKeys))
	msg.MatchID = MatchID(firstString(raw, matchKeys))
	msg.SenderID = UserID(firstString(raw, senderKeys))
	msg.Content = firstString(raw, contentKeys)

	for _, key := range createdAtKeys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		at, err := parseTimestamp(value)
		if err != nil {
			return Message{}, fmt.Errorf("field %q: %w", key, err)
		}
		msg.CreatedAt = at
		break
	}
	return msg, nil
}

func firstString(raw map[string]any, keys []string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// parseTimestamp accepts RFC3339 strings and unix milliseconds.
func parseTimestamp(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		v = strings.TrimSpace(v)
		if at, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return at.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("unsupported timestamp %q", v)
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", value)
	}
}
