package repository

import (
	"context"
	"errors"
	"strconv"

	"mywallet/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix      = "mywallet:session:"
	userSessionsKeyPrefix = "mywallet:user_sessions:"
)

// Deletes every token listed in the user's index and the index itself.
// KEYS[1] = user index, ARGV[1] = session key prefix.
const deleteUserSessionsScript = `
local tokens = redis.call("SMEMBERS", KEYS[1])
local deleted = 0
for _, token in ipairs(tokens) do
  deleted = deleted + redis.call("DEL", ARGV[1] .. token)
end
redis.call("DEL", KEYS[1])
return deleted
`

var deleteUserSessionsLua = redis.NewScript(deleteUserSessionsScript)

// RedisSessionRepository keeps sessions in Redis: one string key per token
// holding the user id, plus a set per user indexing its tokens.
type RedisSessionRepository struct {
	rdb redis.UniversalClient
}

func NewRedisSessionRepository(rdb redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func userSessionsKey(userID int64) string {
	return userSessionsKeyPrefix + strconv.FormatInt(userID, 10)
}

func (r *RedisSessionRepository) CreateSession(ctx context.Context, token string, userID int64) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(token), userID, 0)
		pipe.SAdd(ctx, userSessionsKey(userID), token)
		return nil
	})
	return err
}

func (r *RedisSessionRepository) FindSessionByToken(ctx context.Context, token string) (int64, error) {
	userID, err := r.rdb.Get(ctx, sessionKey(token)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, domain.ErrNotFound
	}
	return userID, err
}

// DeleteSessionsForUser runs as one script, so it is atomic with respect
// to CreateSession.
func (r *RedisSessionRepository) DeleteSessionsForUser(ctx context.Context, userID int64) (int64, error) {
	return deleteUserSessionsLua.Run(ctx, r.rdb, []string{userSessionsKey(userID)}, sessionKeyPrefix).Int64()
}
