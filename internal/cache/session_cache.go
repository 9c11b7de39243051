package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"anamnesis/internal/model"
)

// SessionCache handles Redis operations for live patient sessions:
// the session record, the answer map and the navigation position.
type SessionCache interface {
	SetSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error

	SetAnswer(ctx context.Context, sessionID, questionID string, value interface{}) error
	GetAnswers(ctx context.Context, sessionID string) (model.AnswerMap, error)

	SetPosition(ctx context.Context, sessionID string, index int) error
	GetPosition(ctx context.Context, sessionID string) (int, error)

	IncrNoMove(ctx context.Context, sessionID string) (int64, error)
	ClearNoMove(ctx context.Context, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func (c *sessionCache) sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (c *sessionCache) answersKey(id string) string {
	return fmt.Sprintf("session:%s:answers", id)
}

func (c *sessionCache) positionKey(id string) string {
	return fmt.Sprintf("session:%s:pos", id)
}

func (c *sessionCache) noMoveKey(id string) string {
	return fmt.Sprintf("session:%s:nomove", id)
}

func (c *sessionCache) SetSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.sessionKey(session.ID), data, c.ttl).Err()
}

func (c *sessionCache) GetSession(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, c.sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.sessionKey(id), c.answersKey(id), c.positionKey(id), c.noMoveKey(id)).Err()
}

func (c *sessionCache) SetAnswer(ctx context.Context, sessionID, questionID string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	key := c.answersKey(sessionID)
	if err := c.client.HSet(ctx, key, questionID, data).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *sessionCache) GetAnswers(ctx context.Context, sessionID string) (model.AnswerMap, error) {
	data, err := c.client.HGetAll(ctx, c.answersKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	answers := make(model.AnswerMap, len(data))
	for id, raw := range data {
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			continue
		}
		answers[id] = value
	}
	return answers, nil
}

func (c *sessionCache) SetPosition(ctx context.Context, sessionID string, index int) error {
	return c.client.Set(ctx, c.positionKey(sessionID), index, c.ttl).Err()
}

func (c *sessionCache) GetPosition(ctx context.Context, sessionID string) (int, error) {
	val, err := c.client.Get(ctx, c.positionKey(sessionID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (c *sessionCache) IncrNoMove(ctx context.Context, sessionID string) (int64, error) {
	key := c.noMoveKey(sessionID)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if err := c.client.Expire(ctx, key, c.ttl).Err(); err != nil {
		return n, err
	}
	return n, nil
}

func (c *sessionCache) ClearNoMove(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.noMoveKey(sessionID)).Err()
}
