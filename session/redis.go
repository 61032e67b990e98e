package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/healthdesk/medassist/config"
	"github.com/healthdesk/medassist/extract"
	"github.com/healthdesk/medassist/schema"
)

// RedisStore persists each session as one JSON value so conversations
// survive process restarts and can be shared across replicas. Mutating
// operations are read-modify-write: they are not transactional across
// processes, matching the per-operation atomicity the memory store gives.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(cfg config.SessionConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis at %s: %w", cfg.RedisAddr, err)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (r *RedisStore) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	if err := r.client.Set(ctx, r.key(sess.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (r *RedisStore) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		id = uuid.New().String()
	}
	sess, err := r.load(ctx, id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	now := time.Now()
	sess = &Session{ID: id, CreatedAt: now, UpdatedAt: now}
	if err := r.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.load(ctx, id)
}

func (r *RedisStore) AppendTurn(ctx context.Context, id, role, content string) error {
	sess, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	sess.Turns = append(sess.Turns, Turn{Role: role, Content: content, Timestamp: time.Now()})
	sess.UpdatedAt = time.Now()
	return r.save(ctx, sess)
}

func (r *RedisStore) MergeContext(ctx context.Context, id string, partial schema.PatientContext) error {
	sess, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if !extract.MergeContext(&sess.Context, partial) {
		return nil
	}
	sess.UpdatedAt = time.Now()
	return r.save(ctx, sess)
}

func (r *RedisStore) AddSymptoms(ctx context.Context, id string, symptoms []string) error {
	if len(symptoms) == 0 {
		return nil
	}
	sess, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	merged := extract.MergeSymptoms(sess.Symptoms, symptoms)
	if len(merged) == len(sess.Symptoms) {
		return nil
	}
	sess.Symptoms = merged
	sess.UpdatedAt = time.Now()
	return r.save(ctx, sess)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) ([]string, error) {
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		for _, k := range keys {
			ids = append(ids, strings.TrimPrefix(k, r.prefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisStore) Reset(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan sessions: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("reset sessions: %w", err)
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	return nil
}
