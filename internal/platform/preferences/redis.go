package preferences

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore persists preferences as a hash per subject id.
type RedisStore struct {
	client goredis.UniversalClient
}

func NewRedisStore(client goredis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, subjectID string) (Preferences, error) {
	values, err := s.client.HGetAll(ctx, s.key(subjectID)).Result()
	if err != nil {
		return Preferences{}, fmt.Errorf("preferences: load %s: %w", subjectID, err)
	}
	return Preferences{
		Theme:    values["theme"],
		Language: values["language"],
	}.Normalize(), nil
}

func (s *RedisStore) Save(ctx context.Context, subjectID string, prefs Preferences) error {
	prefs = prefs.Normalize()
	err := s.client.HSet(ctx, s.key(subjectID), map[string]any{
		"theme":    prefs.Theme,
		"language": prefs.Language,
	}).Err()
	if err != nil {
		return fmt.Errorf("preferences: save %s: %w", subjectID, err)
	}
	return nil
}

func (s *RedisStore) key(subjectID string) string {
	return "prefs:" + subjectID
}
