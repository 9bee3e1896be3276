package memory

import (
	"context"
	"sync"

	"github.com/mcoot/supertictactoe/internal/model"
	"github.com/mcoot/supertictactoe/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	games map[model.GameID]*record
}

// record holds one game and its history behind its own lock, so moves on
// different games never contend
type record struct {
	mu      sync.Mutex
	game    *model.Game
	history []*model.Game
	deleted bool
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID]*record),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = &record{
		game:    game.Clone(),
		history: []*model.Game{game.Clone()},
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, model.ErrGameNotFound
	}
	return rec.game.Clone(), nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, fn storage.UpdateFunc) (*model.Game, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, model.ErrGameNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next, err := fn(rec.game.Clone())
	if err != nil {
		return nil, err
	}

	rec.game = next.Clone()
	rec.history = append(rec.history, next.Clone())
	return next, nil
}

func (s *Storage) GetHistory(ctx context.Context, id model.GameID) ([]*model.Game, error) {
	rec, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.deleted {
		return nil, model.ErrGameNotFound
	}
	result := make([]*model.Game, len(rec.history))
	for i, g := range rec.history {
		result[i] = g.Clone()
	}
	return result, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	rec, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return model.ErrGameNotFound
	}
	delete(s.games, id)
	s.mu.Unlock()

	// Wait out any in-flight update before marking the record dead
	rec.mu.Lock()
	rec.deleted = true
	rec.mu.Unlock()
	return nil
}

func (s *Storage) lookup(id model.GameID) (*record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return rec, nil
}
