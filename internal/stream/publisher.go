package stream

import (
	"context"
	"log/slog"

	"github.com/mcoot/supertictactoe/internal/model"
)

// Publisher turns game events into stream messages for the game's watchers
type Publisher struct {
	hubs   *HubManager
	logger *slog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(hubs *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubs:   hubs,
		logger: logger.With(slog.String("component", "stream-publisher")),
	}
}

// Publish delivers an event to anyone watching the game. Games without
// watchers have no hub and the event is dropped.
func (p *Publisher) Publish(ctx context.Context, event model.Event) {
	hub := p.hubs.GetHub(event.GameID)
	if hub == nil {
		return
	}

	switch event.Type {
	case model.EventMoveApplied:
		hub.Broadcast(StateMessage(event.Game))
	case model.EventGameOver:
		hub.Broadcast(GameOverMessage(event.Game))
	case model.EventGameDeleted:
		hub.Broadcast(DeletedMessage())
		p.hubs.RemoveHub(event.GameID)
	default:
		p.logger.Debug("stream ignoring event",
			slog.String("game_id", string(event.GameID)),
			slog.String("type", string(event.Type)))
	}
}
