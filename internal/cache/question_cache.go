package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"interview-prep/internal/model"
)

const minVersionTTL = 24 * time.Hour

// QuestionCache keeps each session's question list as one JSON value under a
// versioned key. Invalidate bumps the session's version, so a list computed
// before a write and stored after it lands under a version nobody reads.
type QuestionCache struct {
	client     *redisv9.Client
	ttl        time.Duration
	versionTTL time.Duration
}

func NewQuestionCache(client *redisv9.Client, ttl time.Duration) *QuestionCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	// The counter must outlive every list stored under it.
	versionTTL := minVersionTTL
	if 2*ttl > versionTTL {
		versionTTL = 2 * ttl
	}
	return &QuestionCache{client: client, ttl: ttl, versionTTL: versionTTL}
}

func (c *QuestionCache) Version(ctx context.Context, sessionID uint) (uint64, error) {
	version, err := c.client.Get(ctx, versionKey(sessionID)).Uint64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get questions version failed: %w", err)
	}
	return version, nil
}

func (c *QuestionCache) GetQuestions(ctx context.Context, sessionID uint, version uint64) ([]model.Question, bool, error) {
	raw, err := c.client.Get(ctx, questionsKey(sessionID, version)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get questions failed: %w", err)
	}

	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached questions failed: %w", err)
	}
	return questions, true, nil
}

func (c *QuestionCache) SetQuestions(ctx context.Context, sessionID uint, version uint64, questions []model.Question) error {
	payload, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("marshal questions cache failed: %w", err)
	}
	if err := c.client.Set(ctx, questionsKey(sessionID, version), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set questions failed: %w", err)
	}
	return nil
}

// Invalidate moves the session to a new version and drops the list stored
// under the old one.
func (c *QuestionCache) Invalidate(ctx context.Context, sessionID uint) error {
	key := versionKey(sessionID)
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, c.versionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis bump questions version failed: %w", err)
	}

	previous := uint64(incr.Val() - 1)
	if err := c.client.Del(ctx, questionsKey(sessionID, previous)).Err(); err != nil {
		return fmt.Errorf("redis delete questions failed: %w", err)
	}
	return nil
}

func questionsKey(sessionID uint, version uint64) string {
	return fmt.Sprintf("interview:questions:%d:v%d", sessionID, version)
}

func versionKey(sessionID uint) string {
	return fmt.Sprintf("interview:questions:%d:version", sessionID)
}
