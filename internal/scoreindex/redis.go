package scoreindex

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "scores:question:"

// Loader returns every stored score of a question keyed by attempt id. It is
// used to seed a question's sorted set the first time it is ranked.
type Loader interface {
	ScoresFor(ctx context.Context, questionNumber int) (map[string]float64, error)
}

// Redis keeps one sorted set per question with attempt ids as members and
// scores as ZSet scores.
type Redis struct {
	client *redis.Client
	loader Loader
}

func NewRedis(client *redis.Client, loader Loader) *Redis {
	return &Redis{client: client, loader: loader}
}

func questionKey(questionNumber int) string {
	return keyPrefix + strconv.Itoa(questionNumber)
}

func (r *Redis) Rank(ctx context.Context, questionNumber int, score float64) (int64, int64, error) {
	key := questionKey(questionNumber)
	if err := r.seed(ctx, questionNumber, key); err != nil {
		return 0, 0, err
	}

	pipe := r.client.Pipeline()
	// "(" makes the upper bound exclusive, so ties are not counted as beaten.
	belowCmd := pipe.ZCount(ctx, key, "-inf", "("+strconv.FormatFloat(score, 'g', -1, 64))
	totalCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rank score: %w", err)
	}
	return belowCmd.Val(), totalCmd.Val(), nil
}

func (r *Redis) Add(ctx context.Context, questionNumber int, attemptID string, score float64) error {
	return r.client.ZAdd(ctx, questionKey(questionNumber), redis.Z{
		Score:  score,
		Member: attemptID,
	}).Err()
}

// seed copies stored scores into an absent key. Re-adding members is
// harmless, so a race between two seeders converges.
func (r *Redis) seed(ctx context.Context, questionNumber int, key string) error {
	if r.loader == nil {
		return nil
	}
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check score key: %w", err)
	}
	if n > 0 {
		return nil
	}
	scores, err := r.loader.ScoresFor(ctx, questionNumber)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	if len(scores) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(scores))
	for id, s := range scores {
		members = append(members, redis.Z{Score: s, Member: id})
	}
	return r.client.ZAdd(ctx, key, members...).Err()
}
