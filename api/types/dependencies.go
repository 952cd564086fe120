package types

import (
	"github.com/killallgit/jamboard-api/internal/database"
	"github.com/killallgit/jamboard-api/internal/services/auth"
	"github.com/killallgit/jamboard-api/internal/services/board"
	"github.com/killallgit/jamboard-api/internal/services/store"
	"github.com/killallgit/jamboard-api/pkg/config"
	"github.com/rs/zerolog"
)

// BinaryChecker reports whether the external media tools can be found
type BinaryChecker interface {
	ValidateBinaries() error
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	Board   *board.Board
	Tokens  *auth.Service
	DB      *database.DB
	Store   store.Store
	Media   BinaryChecker
	Config  *config.Config
	Logger  zerolog.Logger
	Version string
}
