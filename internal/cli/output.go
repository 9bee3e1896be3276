package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mcoot/supertictactoe/internal/api/response"
	"github.com/mcoot/supertictactoe/internal/stream"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter. A nil writer means stdout.
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// PrintStream outputs one watch message. JSON output is one object per line.
func (o *Output) PrintStream(msg stream.Message) {
	if o.format == "json" {
		data, _ := json.Marshal(msg)
		fmt.Fprintln(o.w, string(data))
		return
	}

	switch msg.Type {
	case stream.MessageDeleted:
		fmt.Fprintln(o.w, "Game deleted")
	case stream.MessageGameOver:
		o.printGame(*msg.Game)
		fmt.Fprintf(o.w, "Game over: %s\n", msg.Outcome)
	default:
		if msg.Game != nil {
			o.printGame(*msg.Game)
		}
	}
	fmt.Fprintln(o.w)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case []response.Game:
		o.printHistory(v)
	case response.Moves:
		o.printMoves(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	fmt.Fprintf(o.w, "Moves: %d\n", g.MoveCount)

	if g.LastMove != nil {
		fmt.Fprintf(o.w, "Last move: %s at board %d cell %d\n",
			g.LastMove.Player, g.LastMove.BoardIndex, g.LastMove.CellIndex)
	}
	if g.Winner == nil && !g.IsDraw {
		if g.ActiveBoard != nil {
			fmt.Fprintf(o.w, "Active board: %d\n", *g.ActiveBoard)
		} else {
			fmt.Fprintf(o.w, "Active board: any of %s\n", joinInts(g.PlayableBoards))
		}
	}

	won := []string{}
	for b, w := range g.MiniWinners {
		if w != nil {
			won = append(won, fmt.Sprintf("%d=%s", b, *w))
		}
	}
	if len(won) > 0 {
		fmt.Fprintf(o.w, "Boards won: %s\n", strings.Join(won, " "))
	}

	fmt.Fprintln(o.w)
	fmt.Fprint(o.w, RenderGrid(g))
}

// RenderGrid draws the 9x9 meta-board with sub-boards separated by rules.
// Empty cells are dots.
func RenderGrid(g response.Game) string {
	var sb strings.Builder
	for row := 0; row < 9; row++ {
		if row > 0 && row%3 == 0 {
			sb.WriteString("-------+-------+-------\n")
		}
		for col := 0; col < 9; col++ {
			if col > 0 && col%3 == 0 {
				sb.WriteString(" |")
			}
			board := (row/3)*3 + col/3
			cell := (row%3)*3 + col%3
			mark := "."
			if p := g.Boards[board][cell]; p != nil {
				mark = *p
			}
			sb.WriteString(" " + mark)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (o *Output) printHistory(history []response.Game) {
	for _, g := range history {
		if g.LastMove == nil {
			fmt.Fprintf(o.w, "%3d  start\n", g.MoveCount)
			continue
		}
		fmt.Fprintf(o.w, "%3d  %s -> board %d cell %d  (%s)\n",
			g.MoveCount, g.LastMove.Player, g.LastMove.BoardIndex, g.LastMove.CellIndex, g.Status)
	}
}

func (o *Output) printMoves(m response.Moves) {
	if len(m.Moves) == 0 {
		fmt.Fprintln(o.w, "No legal moves: the game is over")
		return
	}

	byBoard := map[int][]int{}
	boards := []int{}
	for _, mv := range m.Moves {
		if _, ok := byBoard[mv.BoardIndex]; !ok {
			boards = append(boards, mv.BoardIndex)
		}
		byBoard[mv.BoardIndex] = append(byBoard[mv.BoardIndex], mv.CellIndex)
	}

	fmt.Fprintf(o.w, "%s to move, %d legal moves\n", m.Player, len(m.Moves))
	for _, b := range boards {
		fmt.Fprintf(o.w, "  board %d: cells %s\n", b, joinInts(byBoard[b]))
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
