// Package client is a PawMatch API client that keeps one reconciled
// timeline per joined chat. The CLI in cmd/client and the scenario tests
// drive the server through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"pawmatch/domain"
	"pawmatch/errors"
	"pawmatch/infrastructure/ws"
	"pawmatch/projection"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
	token   string
	userID  domain.UserID

	mu        sync.Mutex
	conn      *websocket.Conn
	done      chan struct{}
	timelines map[domain.MatchID]*projection.Timeline
	joins     map[domain.MatchID]chan error
	matches   chan domain.Match
	writeMu   sync.Mutex
}

func New(log *slog.Logger, baseURL string) *Client {
	return &Client{
		log:       log,
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 10 * time.Second},
		timelines: make(map[domain.MatchID]*projection.Timeline),
		joins:     make(map[domain.MatchID]chan error),
		matches:   make(chan domain.Match, 16),
	}
}

type apiError struct {
	Status int
	Code   string `json:"code"`
	Reason string `json:"error"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Reason)
}

// Unwrap maps the wire code back onto the domain sentinel.
func (e *apiError) Unwrap() error {
	switch e.Code {
	case "InvalidArgument":
		return errors.ErrInvalidArgument
	case "InvalidOperation":
		return errors.ErrInvalidOperation
	case "Unauthenticated":
		return errors.ErrUnauthenticated
	case "Forbidden":
		return errors.ErrForbidden
	case "NotFound":
		return errors.ErrNotFound
	case "Conflict":
		return errors.ErrConflict
	case "QuotaExceeded":
		return errors.ErrQuotaExceeded
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email, "password": password}, &body); err != nil {
		return err
	}
	c.token = body.Token
	return nil
}

// UserID is known once the client owns a pet or a match. It is only used to label the sender of pending messages.
func (c *Client) UserID() domain.UserID {
	return c.userID
}

func (c *Client) CreatePet(ctx context.Context, name, species string) (domain.Pet, error) {
	var pet domain.Pet
	err := c.do(ctx, http.MethodPost, "/api/pets", map[string]string{"name": name, "species": species}, &pet)
	if err == nil {
		c.userID = pet.OwnerID
	}
	return pet, err
}

func (c *Client) Like(ctx context.Context, from, to domain.PetID) (domain.LikeResult, error) {
	return c.swipe(ctx, from, to, "like")
}

func (c *Client) Pass(ctx context.Context, from, to domain.PetID) error {
	_, err := c.swipe(ctx, from, to, "pass")
	return err
}

func (c *Client) swipe(ctx context.Context, from, to domain.PetID, action string) (domain.LikeResult, error) {
	var result domain.LikeResult
	err := c.do(ctx, http.MethodPost, "/api/swipes", map[string]string{
		"fromPetId": string(from), "toPetId": string(to), "action": action,
	}, &result)
	return result, err
}

func (c *Client) Matches(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	return matches, c.do(ctx, http.MethodGet, "/api/matches", nil, &matches)
}

// SendREST posts a message over HTTP instead of the socket.
func (c *Client) SendREST(ctx context.Context, matchID domain.MatchID, content string) (domain.Message, error) {
	var msg domain.Message
	return msg, c.do(ctx, http.MethodPost, "/api/matches/"+url.PathEscape(string(matchID))+"/messages",
		map[string]string{"content": content}, &msg)
}

// History reads every page of a chat, oldest first.
func (c *Client) History(ctx context.Context, matchID domain.MatchID) ([]domain.Message, error) {
	var all []domain.Message
	cursor := ""
	for {
		path := "/api/matches/" + url.PathEscape(string(matchID)) + "/messages"
		if cursor != "" {
			path += "?cursor=" + url.QueryEscape(cursor)
		}
		var page struct {
			Messages []domain.Message `json:"messages"`
			Cursor   *string          `json:"cursor"`
		}
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Messages...)
		if page.Cursor == nil {
			return all, nil
		}
		cursor = *page.Cursor
	}
}

// Connect opens the realtime socket. Pushes are applied to the timelines
// until the socket drops, which closes Done.
func (c *Client) Connect(ctx context.Context) error {
	endpoint := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.baseURL, err)
	}
	done := make(chan struct{})
	c.mu.Lock()
	c.conn, c.done = conn, done
	c.mu.Unlock()
	go c.readLoop(conn, done)
	return nil
}

func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// MatchCreated delivers match pushes received on the socket.
func (c *Client) MatchCreated() <-chan domain.Match {
	return c.matches
}

func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Join subscribes to a chat and merges its history into the timeline.
func (c *Client) Join(ctx context.Context, matchID domain.MatchID) (*projection.Timeline, error) {
	joined := make(chan error, 1)
	c.mu.Lock()
	timeline, ok := c.timelines[matchID]
	if !ok {
		timeline = projection.NewTimeline(matchID)
		c.timelines[matchID] = timeline
	}
	c.joins[matchID] = joined
	c.mu.Unlock()

	err := c.write(ws.Frame{Type: ws.FrameJoin, MatchID: matchID})
	if err == nil {
		select {
		case err = <-joined:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}
	if err != nil {
		if !ok {
			c.mu.Lock()
			delete(c.timelines, matchID)
			c.mu.Unlock()
		}
		return nil, err
	}

	history, err := c.History(ctx, matchID)
	if err != nil {
		return nil, err
	}
	timeline.Merge(history)
	return timeline, nil
}

// Reconnect reopens the socket, joins the same chats again and fetches
// what was missed while offline.
func (c *Client) Reconnect(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	joined := lo.Keys(c.timelines)
	c.mu.Unlock()
	for _, matchID := range joined {
		if _, err := c.Join(ctx, matchID); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) Timeline(matchID domain.MatchID) *projection.Timeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timelines[matchID]
}

// Send shows the message right away as pending and ships it on the socket.
// The ack or error frame settles it later.
func (c *Client) Send(matchID domain.MatchID, content string) (string, error) {
	timeline := c.Timeline(matchID)
	if timeline == nil {
		return "", fmt.Errorf("chat %s not joined: %w", matchID, errors.ErrInvalidOperation)
	}
	tempID := uuid.NewString()
	timeline.AddPending(tempID, content, c.userID, time.Now().UTC())
	if err := c.write(ws.Frame{Type: ws.FrameSend, MatchID: matchID, TempID: tempID, Content: content}); err != nil {
		timeline.Fail(tempID)
		return "", err
	}
	return tempID, nil
}

func (c *Client) write(frame ws.Frame) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.ErrConnectionGone
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(frame)
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var raw map[string]any
		if err := conn.ReadJSON(&raw); err != nil {
			c.log.Debug("Socket closed", "error", err)
			return
		}
		c.apply(raw)
	}
}

func (c *Client) apply(raw map[string]any) {
	kind, _ := raw["type"].(string)
	matchID := domain.MatchID(str(raw, "matchId"))
	tempID := str(raw, "tempId")

	switch ws.FrameType(kind) {
	case ws.FrameJoined:
		c.settleJoin(matchID, nil)
	case ws.FrameMessage, ws.FrameAck:
		payload, _ := raw["message"].(map[string]any)
		msg, err := domain.NormalizeMessage(payload)
		if err != nil {
			c.log.Debug("Unreadable message frame", "error", err)
			return
		}
		timeline := c.Timeline(msg.MatchID)
		if timeline == nil {
			return
		}
		if kind == string(ws.FrameAck) {
			timeline.Confirm(tempID, msg)
			return
		}
		timeline.Receive(msg)
	case ws.FrameError:
		err := &apiError{Code: str(raw, "code"), Reason: str(raw, "error")}
		if tempID != "" {
			if timeline := c.Timeline(matchID); timeline != nil {
				timeline.Fail(tempID)
			}
			c.log.Info("Message rejected", "match_id", matchID, "error", err)
			return
		}
		c.settleJoin(matchID, err)
	case ws.FrameMatch:
		var match domain.Match
		data, _ := json.Marshal(raw["match"])
		if err := json.Unmarshal(data, &match); err != nil {
			return
		}
		select {
		case c.matches <- match:
		default:
		}
	}
}

func (c *Client) settleJoin(matchID domain.MatchID, err error) {
	c.mu.Lock()
	joined, ok := c.joins[matchID]
	delete(c.joins, matchID)
	c.mu.Unlock()
	if ok {
		joined <- err
	}
}

func str(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}
