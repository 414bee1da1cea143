package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridplay/tictactoe-server/internal/apperror"
)

func TestNewGame(t *testing.T) {
	// When: create a new game instance
	game := NewGame("game-1")

	// Then: the game should have the expected initial state
	expectedGame := Game{
		ID:         "game-1",
		Board:      [9]string{},
		NextPlayer: PlayerX,
		Status:     StatusInProgress,
	}

	require.NotNil(t, game)
	require.Equal(t, expectedGame, *game)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board [9]string
		want  string
	}{
		{
			name:  "empty board is in progress",
			board: [9]string{},
			want:  StatusInProgress,
		},
		{
			name:  "top row win for X",
			board: [9]string{"X", "X", "X", "O", "O", "", "", "", ""},
			want:  StatusXWon,
		},
		{
			name:  "left column win for X",
			board: [9]string{"X", "O", "O", "X", "", "", "X", "", ""},
			want:  StatusXWon,
		},
		{
			name:  "anti-diagonal win for O",
			board: [9]string{"X", "X", "O", "X", "O", "", "O", "", ""},
			want:  StatusOWon,
		},
		{
			name:  "full board with no winner is a draw",
			board: [9]string{"X", "O", "X", "X", "O", "O", "O", "X", "X"},
			want:  StatusDraw,
		},
		{
			name:  "partially filled board with no winner is in progress",
			board: [9]string{"X", "O", "", "", "X", "", "", "", "O"},
			want:  StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.board))

			// Evaluate is pure: a second call yields the same status
			assert.Equal(t, tt.want, Evaluate(tt.board))
		})
	}
}

func TestGame_ApplyMove(t *testing.T) {
	t.Run("legal move places mark and flips next player", func(t *testing.T) {
		// Given: a new game
		game := NewGame("game-1")

		// When: X moves to cell 4
		err := game.ApplyMove(4)

		// Then: the mark is placed, the turn passes to O and the game continues
		require.NoError(t, err)
		assert.Equal(t, PlayerX, game.Board[4])
		assert.Equal(t, PlayerO, game.NextPlayer)
		assert.Equal(t, StatusInProgress, game.Status)
	})

	t.Run("position below range is rejected", func(t *testing.T) {
		game := NewGame("game-1")

		err := game.ApplyMove(-1)

		require.ErrorIs(t, err, apperror.ErrInvalidPosition)
		assert.Equal(t, [9]string{}, game.Board)
		assert.Equal(t, PlayerX, game.NextPlayer)
	})

	t.Run("position above range is rejected", func(t *testing.T) {
		game := NewGame("game-1")

		err := game.ApplyMove(9)

		require.ErrorIs(t, err, apperror.ErrInvalidPosition)
		assert.Equal(t, [9]string{}, game.Board)
	})

	t.Run("occupied cell is rejected without side effects", func(t *testing.T) {
		// Given: X already took cell 0
		game := NewGame("game-1")
		require.NoError(t, game.ApplyMove(0))

		boardBefore := game.Board

		// When: O tries the same cell
		err := game.ApplyMove(0)

		// Then: the move fails and board and turn are untouched
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, boardBefore, game.Board)
		assert.Equal(t, PlayerO, game.NextPlayer)
	})

	t.Run("column win for X ends the game", func(t *testing.T) {
		// Given: the sequence X:0 O:1 X:3 O:2 X:6
		game := NewGame("game-1")
		for _, position := range []int{0, 1, 3, 2, 6} {
			require.NoError(t, game.ApplyMove(position))
		}

		// Then: X holds the left column and the game is over
		expectedBoard := [9]string{"X", "O", "O", "X", "", "", "X", "", ""}
		assert.Equal(t, expectedBoard, game.Board)
		assert.Equal(t, StatusXWon, game.Status)
		assert.True(t, game.IsFinished())

		// Then: NextPlayer keeps its last value, it is not flipped on a terminal move
		assert.Equal(t, PlayerX, game.NextPlayer)
	})

	t.Run("finished game rejects any further move", func(t *testing.T) {
		game := NewGame("game-1")
		for _, position := range []int{0, 1, 3, 2, 6} {
			require.NoError(t, game.ApplyMove(position))
		}

		boardBefore := game.Board

		// When: moves are attempted on empty, occupied and out-of-range cells
		for _, position := range []int{4, 0, -1, 9} {
			err := game.ApplyMove(position)

			// Then: the finished check wins over every other precondition
			require.ErrorIs(t, err, apperror.ErrGameFinished)
			assert.Equal(t, boardBefore, game.Board)
		}
	})

	t.Run("full board with no winner ends in a draw", func(t *testing.T) {
		// Given: an alternating sequence that fills the board without a line
		game := NewGame("game-1")
		for _, position := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			require.NoError(t, game.ApplyMove(position))
		}

		// Then: the game is a draw and every cell is occupied
		assert.Equal(t, StatusDraw, game.Status)
		for _, cell := range game.Board {
			assert.NotEqual(t, EmptyCell, cell)
		}
	})

	t.Run("every legal move flips the player or ends the game, never both", func(t *testing.T) {
		game := NewGame("game-1")

		for _, position := range []int{0, 1, 3, 2, 6} {
			playerBefore := game.NextPlayer
			require.NoError(t, game.ApplyMove(position))

			if game.IsFinished() {
				assert.Equal(t, playerBefore, game.NextPlayer)
			} else {
				assert.NotEqual(t, playerBefore, game.NextPlayer)
			}
		}
	})
}

func TestGame_Clone(t *testing.T) {
	// Given: a game with one move applied
	game := NewGame("game-1")
	require.NoError(t, game.ApplyMove(0))

	// When: the clone is mutated
	clone := game.Clone()
	clone.Board[1] = PlayerO
	clone.Status = StatusDraw

	// Then: the original game is unaffected
	assert.Equal(t, EmptyCell, game.Board[1])
	assert.Equal(t, StatusInProgress, game.Status)
}
