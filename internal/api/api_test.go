package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/supertictactoe/internal/api"
	"github.com/mcoot/supertictactoe/internal/api/apierr"
	"github.com/mcoot/supertictactoe/internal/api/response"
	"github.com/mcoot/supertictactoe/internal/factory"
	"github.com/mcoot/supertictactoe/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T, defaultStarting string) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:                testutil.NopLogger(),
		GameController:        app.GameController,
		HubManager:            app.HubManager,
		DefaultStartingPlayer: defaultStarting,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createGame(t *testing.T, body any) response.Game {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/games/new", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.Game](t, rr)
}

func (ts *testServer) move(id string, board, cell int) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, "/api/v1/games/"+id+"/move",
		map[string]int{"board_index": board, "cell_index": cell})
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) apierr.ErrorResponse {
	t.Helper()
	assert.Equal(t, status, rr.Code, rr.Body.String())
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Code)
	assert.NotEmpty(t, resp.Detail)
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t, "")
	ts.app.MockRandom.QueueUUID("11111111-1111-4111-8111-111111111111")

	g := ts.createGame(t, nil)

	assert.Equal(t, "11111111-1111-4111-8111-111111111111", g.ID)
	assert.Equal(t, "X", g.CurrentPlayer)
	assert.Equal(t, "X's turn", g.Status)
	assert.Equal(t, 0, g.MoveCount)
	assert.Nil(t, g.ActiveBoard)
	assert.Nil(t, g.Winner)
	assert.Nil(t, g.LastMove)
	assert.False(t, g.IsDraw)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, g.PlayableBoards)
	for b := range g.Boards {
		assert.Nil(t, g.MiniWinners[b])
		for c := range g.Boards[b] {
			assert.Nil(t, g.Boards[b][c])
		}
	}
}

func TestCreateGameNullsInJSON(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/games/new", nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Nil(t, raw["active_board"])
	assert.Nil(t, raw["winner"])
	assert.Nil(t, raw["last_move"])
	assert.Contains(t, raw, "active_board")
}

func TestCreateGameStartingPlayer(t *testing.T) {
	tests := []struct {
		name            string
		defaultStarting string
		body            any
		want            string
	}{
		{"explicit O", "", map[string]string{"starting_player": "O"}, "O"},
		{"server default", "O", nil, "O"},
		{"explicit overrides default", "O", map[string]string{"starting_player": "X"}, "X"},
		{"random", "", map[string]string{"starting_player": "random"}, "O"},
		{"random default", "random", map[string]any{}, "O"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.defaultStarting)
			ts.app.MockRandom.QueueIntn(1)

			g := ts.createGame(t, tt.body)
			assert.Equal(t, tt.want, g.CurrentPlayer)
		})
	}
}

func TestCreateGameInvalid(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/games/new", map[string]string{"starting_player": "Z"})
	assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidPlayer)

	rr = ts.request(http.MethodPost, "/api/v1/games/new", "{not json")
	assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t, "")
	created := ts.createGame(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode[response.Game](t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/games/missing", nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

func TestMove(t *testing.T) {
	ts := newTestServer(t, "")
	id := ts.createGame(t, nil).ID

	rr := ts.move(id, 4, 2)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	g := decode[response.Game](t, rr)
	require.NotNil(t, g.Boards[4][2])
	assert.Equal(t, "X", *g.Boards[4][2])
	assert.Equal(t, "O", g.CurrentPlayer)
	require.NotNil(t, g.ActiveBoard)
	assert.Equal(t, 2, *g.ActiveBoard)
	assert.Equal(t, []int{2}, g.PlayableBoards)
	assert.Equal(t, &response.Move{Player: "X", BoardIndex: 4, CellIndex: 2}, g.LastMove)
	assert.Equal(t, 1, g.MoveCount)
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t, "")
	id := ts.createGame(t, nil).ID
	require.Equal(t, http.StatusOK, ts.move(id, 4, 2).Code)

	tests := []struct {
		name   string
		board  int
		cell   int
		status int
		code   string
	}{
		{"wrong board", 0, 0, http.StatusConflict, apierr.CodeWrongBoard},
		{"board out of range", 9, 0, http.StatusBadRequest, apierr.CodeInvalidBoardIndex},
		{"negative cell", 2, -1, http.StatusBadRequest, apierr.CodeInvalidCellIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, ts.move(id, tt.board, tt.cell), tt.status, tt.code)
		})
	}

	resp := assertError(t, ts.move(id, 7, 7), http.StatusConflict, apierr.CodeWrongBoard)
	assert.Contains(t, resp.Detail, "board 2")

	require.Equal(t, http.StatusOK, ts.move(id, 2, 4).Code)
	assertError(t, ts.move(id, 4, 2), http.StatusConflict, apierr.CodeCellOccupied)

	// Rejections leave the game untouched
	g := decode[response.Game](t, ts.request(http.MethodGet, "/api/v1/games/"+id, nil))
	assert.Equal(t, 2, g.MoveCount)
	assert.Equal(t, "X", g.CurrentPlayer)
}

func TestMoveMalformedRequest(t *testing.T) {
	ts := newTestServer(t, "")
	id := ts.createGame(t, nil).ID

	tests := []struct {
		name string
		body any
	}{
		{"empty body", nil},
		{"not json", "board 4"},
		{"missing cell", map[string]int{"board_index": 4}},
		{"wrong type", `{"board_index":"4","cell_index":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/games/"+id+"/move", tt.body)
			assertError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
		})
	}

	assertError(t, ts.move("missing", 0, 0), http.StatusNotFound, apierr.CodeGameNotFound)
}

func TestHistoryAndMoves(t *testing.T) {
	ts := newTestServer(t, "")
	id := ts.createGame(t, nil).ID
	require.Equal(t, http.StatusOK, ts.move(id, 4, 4).Code)
	require.Equal(t, http.StatusOK, ts.move(id, 4, 0).Code)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+id+"/history", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	history := decode[[]response.Game](t, rr)
	require.Len(t, history, 3)
	for i, g := range history {
		assert.Equal(t, i, g.MoveCount)
	}
	assert.Nil(t, history[0].LastMove)
	assert.Equal(t, "O", history[2].LastMove.Player)

	rr = ts.request(http.MethodGet, "/api/v1/games/"+id+"/moves", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	moves := decode[response.Moves](t, rr)
	assert.Equal(t, "X", moves.Player)
	require.Len(t, moves.Moves, 9)
	for _, m := range moves.Moves {
		assert.Equal(t, 0, m.BoardIndex)
	}

	rr = ts.request(http.MethodGet, "/api/v1/games/missing/history", nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)
	rr = ts.request(http.MethodGet, "/api/v1/games/missing/moves", nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t, "")
	id := ts.createGame(t, nil).ID

	rr := ts.request(http.MethodDelete, "/api/v1/games/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/games/"+id, nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+id, nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

func TestWatchMissingGame(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/games/missing/ws", nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)

	rr = ts.request(http.MethodGet, "/api/v1/games/missing/events", nil)
	assertError(t, rr, http.StatusNotFound, apierr.CodeGameNotFound)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPut, "/api/v1/games/new", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
