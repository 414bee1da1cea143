package entity

import "github.com/gridplay/tictactoe-server/internal/apperror"

const (
	StatusInProgress = "IN_PROGRESS"
	StatusXWon       = "X_WON"
	StatusOWon       = "O_WON"
	StatusDraw       = "DRAW"

	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

// WinLines - the 8 winning triples of a 3x3 board in row-major order:
// 3 rows, 3 columns, 2 diagonals.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game holds one game's full state. The board is row-major, cells 0..8.
type Game struct {
	ID         string    `json:"id"`
	Board      [9]string `json:"board"`
	NextPlayer string    `json:"nextPlayer"`
	Status     string    `json:"status"`
}

// NewGame - returns a fresh game: empty board, X to move, in progress.
func NewGame(id string) *Game {
	return &Game{
		ID:         id,
		Board:      [9]string{},
		NextPlayer: PlayerX,
		Status:     StatusInProgress,
	}
}

// ApplyMove - places the next player's mark at position and recomputes the
// status. All preconditions are checked before the board is touched, so a
// failed move leaves the game unchanged. The position is re-validated here
// even though the transport already bounds-checks it.
func (that *Game) ApplyMove(position int) error {
	if that.Status != StatusInProgress {
		return apperror.ErrGameFinished
	}

	if position < 0 || position >= len(that.Board) {
		return apperror.ErrInvalidPosition
	}

	if that.Board[position] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[position] = that.NextPlayer
	that.Status = Evaluate(that.Board)

	// once the game is terminal NextPlayer keeps its last value and
	// carries no meaning anymore
	if that.Status == StatusInProgress {
		that.NextPlayer = toggleMark(that.NextPlayer)
	}

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status != StatusInProgress
}

// Clone - returns a snapshot copy; the board is an array, so a plain value
// copy is a deep copy.
func (that *Game) Clone() *Game {
	clone := *that
	return &clone
}

// Evaluate - derives the status from the marks alone: a completed line wins
// for its mark, a full board with no winner is a draw, anything else is
// still in progress. Pure function, no side effects.
func Evaluate(board [9]string) string {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != EmptyCell && a == b && b == c {
			if a == PlayerX {
				return StatusXWon
			}
			return StatusOWon
		}
	}

	for _, cell := range board {
		if cell == EmptyCell {
			return StatusInProgress
		}
	}

	return StatusDraw
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
