package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/supertictactoe/internal/model"
	"github.com/mcoot/supertictactoe/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + history start
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	pipe.Del(ctx, historyKey(game.ID))
	pipe.RPush(ctx, historyKey(game.ID), data)
	if s.cfg.GameTTL > 0 {
		pipe.Expire(ctx, historyKey(game.ID), s.cfg.GameTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving game %s: %w", game.ID, err)
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("getting game %s: %w", id, err)
	}
	return decodeGame(data)
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.UpdateFunc) (*model.Game, error) {
	key := gameKey(id)

	var result *model.Game
	// domainErr passes through unwrapped; driver errors get context
	var domainErr error
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				domainErr = model.ErrGameNotFound
				return domainErr
			}
			return err
		}

		current, err := decodeGame(data)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			domainErr = err
			return err
		}

		encoded, err := json.Marshal(next)
		if err != nil {
			return err
		}

		// Only commits if the game key was not touched since WATCH
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.cfg.GameTTL)
			pipe.RPush(ctx, historyKey(id), encoded)
			if s.cfg.GameTTL > 0 {
				pipe.Expire(ctx, historyKey(id), s.cfg.GameTTL)
			}
			return nil
		})
		if err != nil {
			return err
		}

		result = next
		return nil
	}

	for attempt := 0; attempt < s.cfg.MaxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if domainErr != nil {
			return nil, domainErr
		}
		if err != nil {
			return nil, fmt.Errorf("updating game %s: %w", id, err)
		}
		return result, nil
	}
	return nil, model.ErrConcurrentUpdate
}

func (s *Storage) GetHistory(ctx context.Context, id model.GameID) ([]*model.Game, error) {
	entries, err := s.client.LRange(ctx, historyKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("getting history of game %s: %w", id, err)
	}
	if len(entries) == 0 {
		return nil, model.ErrGameNotFound
	}

	history := make([]*model.Game, 0, len(entries))
	for i, entry := range entries {
		game, err := decodeGame([]byte(entry))
		if err != nil {
			return nil, fmt.Errorf("decoding history entry %d: %w", i, err)
		}
		history = append(history, game)
	}
	return history, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	deleted, err := s.client.Del(ctx, gameKey(id), historyKey(id)).Result()
	if err != nil {
		return fmt.Errorf("deleting game %s: %w", id, err)
	}
	if deleted == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

func decodeGame(data []byte) (*model.Game, error) {
	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("decoding game: %w", err)
	}
	return &game, nil
}
