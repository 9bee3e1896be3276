package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/mcoot/supertictactoe/internal/api"
	"github.com/mcoot/supertictactoe/internal/factory"
	"github.com/mcoot/supertictactoe/internal/model"
	"github.com/mcoot/supertictactoe/internal/services/game"
	"github.com/mcoot/supertictactoe/internal/stream"
	"github.com/mcoot/supertictactoe/internal/testutil"
)

// untilLastMove is a legal game that X wins with the move (1, 0)
var untilLastMove = [][2]int{
	{3, 7}, {7, 1}, {1, 4}, {4, 1}, {1, 6}, {6, 0}, {0, 0}, {0, 1},
	{1, 3}, {3, 2}, {2, 4}, {4, 2}, {2, 7}, {7, 0}, {0, 8}, {8, 0},
	{0, 4}, {4, 4}, {4, 3}, {3, 4}, {4, 0}, {7, 2}, {2, 1}, {1, 1},
}

// moveDuringRead commits a move while a watcher's initial read is in flight,
// then returns the state from before that move
type moveDuringRead struct {
	game.ControllerInterface
	board, cell int

	once sync.Once
	err  error
}

func (c *moveDuringRead) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	before, err := c.ControllerInterface.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	c.once.Do(func() {
		_, c.err = c.ControllerInterface.ApplyMove(ctx, id, c.board, c.cell)
	})
	return before, c.err
}

func newRacingServer(t *testing.T) (*httptest.Server, *factory.TestApp, model.GameID) {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	ctx := context.Background()
	g, err := app.GameController.CreateGame(ctx, model.PlayerX)
	require.NoError(t, err)
	for _, m := range untilLastMove {
		_, err := app.GameController.ApplyMove(ctx, g.ID, m[0], m[1])
		require.NoError(t, err)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		GameController: &moveDuringRead{ControllerInterface: app.GameController, board: 1, cell: 0},
		HubManager:     app.HubManager,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, app, g.ID
}

// collectUntilGameOver reads frames until game_over, returning every type seen
func collectUntilGameOver(t *testing.T, next func() stream.Message) ([]stream.MessageType, stream.Message) {
	t.Helper()
	var types []stream.MessageType
	for range 4 {
		msg := next()
		types = append(types, msg.Type)
		if msg.Type == stream.MessageGameOver {
			return types, msg
		}
	}
	t.Fatalf("no game_over frame, got %v", types)
	return nil, stream.Message{}
}

func TestEventsDeliversMoveCommittedWhileSubscribing(t *testing.T) {
	srv, app, id := newRacingServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/games/"+string(id)+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	types, over := collectUntilGameOver(t, func() stream.Message {
		return readSSEMessage(t, reader)
	})

	assert.Equal(t, stream.MessageState, types[0])
	assert.Equal(t, "X", over.Outcome)
	assert.Equal(t, len(untilLastMove)+1, over.Game.MoveCount)

	stored, err := app.GameController.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.PlayerX, stored.Winner)
}

func TestWatchDeliversMoveCommittedWhileSubscribing(t *testing.T) {
	srv, _, id := newRacingServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/" + string(id) + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	_, over := collectUntilGameOver(t, func() stream.Message {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var msg stream.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	})

	assert.Equal(t, "X", over.Outcome)
	require.NotNil(t, over.Game.Winner)
	assert.Equal(t, "X", *over.Game.Winner)
}

func readSSEMessage(t *testing.T, reader *bufio.Reader) stream.Message {
	t.Helper()
	var msg stream.Message
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			t.Fatal("stream ended")
		}
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "data: "):
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &msg))
		case line == "" && msg.Type != "":
			return msg
		}
	}
}
