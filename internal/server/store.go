package server

import (
	"context"
	"errors"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

// ErrNotFound is returned by store lookups when no row matches. Callers
// treat it as "absent", never as a query failure.
var ErrNotFound = errors.New("not found")

// sessionRow is a game_session row as stored: enums as lowercase strings,
// guessed countries as a raw JSON array of codes.
type sessionRow struct {
	ID                int64
	PlayerID          int64
	Difficulty        string
	StartingAirportID int64
	BossAirportID     int64
	BossCountryCode   string
	CurrentAirportID  int64
	BatteryLevel      int
	PuzzlesSolved     int
	CountriesJSON     string
	Status            string
	Score             int
	CompletedAt       *string
}

// saveRow is a game_save row minus the owning player id.
type saveRow struct {
	ID        int64
	SaveName  string
	Data      string
	CreatedAt string
	UpdatedAt string
}

// Store is the storage gateway: every durable read/write the game needs,
// one parameterized statement each.
type Store interface {
	// Players.
	GetOrCreatePlayer(ctx context.Context, name string, battery int, difficulty skyquiz.Difficulty) (skyquiz.Player, error)
	PlayerByID(ctx context.Context, id int64) (skyquiz.Player, error)
	SetPlayerBattery(ctx context.Context, id int64, level int) error
	SetPlayerDifficulty(ctx context.Context, id int64, d skyquiz.Difficulty) error

	// Reference data.
	ListAirports(ctx context.Context) ([]skyquiz.Airport, error)
	AirportByID(ctx context.Context, id int64) (skyquiz.Airport, error)
	AirportByName(ctx context.Context, name string) (skyquiz.Airport, error)
	RandomAirport(ctx context.Context, excludeCountry string) (skyquiz.Airport, error)
	CountryByCode(ctx context.Context, code string) (skyquiz.Country, error)
	CountryByName(ctx context.Context, name string) (skyquiz.Country, error)

	// Challenges.
	RandomOpenQuestion(ctx context.Context, d skyquiz.Difficulty) (skyquiz.OpenQuestion, error)
	RandomMultipleChoice(ctx context.Context, d skyquiz.Difficulty) (skyquiz.MultipleChoiceQuestion, error)

	// Sessions.
	CreateSession(ctx context.Context, row sessionRow) (int64, error)
	SessionByID(ctx context.Context, id int64) (sessionRow, error)
	SetSessionAirport(ctx context.Context, id, airportID int64) error
	SetSessionBattery(ctx context.Context, id int64, level int) error
	SetSessionPuzzlesSolved(ctx context.Context, id int64, n int) error
	SetSessionCountries(ctx context.Context, id int64, codesJSON string) error
	SetSessionStatus(ctx context.Context, id int64, status skyquiz.Status, completed bool) error

	// Saves.
	UpsertSave(ctx context.Context, playerID int64, name, data string) error
	SavesByPlayer(ctx context.Context, playerID int64) ([]saveRow, error)
	SaveData(ctx context.Context, playerID int64, name string) (string, error)
	DeleteSave(ctx context.Context, playerID int64, name string) error
}
