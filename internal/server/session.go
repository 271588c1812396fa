package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

var errNoAirports = errors.New("no eligible starting airport")

// Engine owns the game-session lifecycle: creation, state mutation,
// composite state projection, and status transitions.
type Engine struct {
	store Store
	rules skyquiz.Rules
}

func NewEngine(store Store, rules skyquiz.Rules) *Engine {
	return &Engine{store: store, rules: rules}
}

// NewGame runs the new-game use case: get-or-create the player, reset its
// battery and difficulty for the chosen level, pick a boss airport among
// the major hubs, and open a session against it.
func (e *Engine) NewGame(ctx context.Context, playerName string, difficulty skyquiz.Difficulty) (int64, error) {
	player, err := e.store.GetOrCreatePlayer(ctx, playerName, e.rules.DefaultBattery, skyquiz.DifficultyEasy)
	if err != nil {
		return 0, fmt.Errorf("creating player: %w", err)
	}

	start := skyquiz.ClampBattery(e.rules.Starting(difficulty))
	if err := e.store.SetPlayerBattery(ctx, player.ID, start); err != nil {
		return 0, fmt.Errorf("setting player battery: %w", err)
	}
	if err := e.store.SetPlayerDifficulty(ctx, player.ID, difficulty); err != nil {
		return 0, fmt.Errorf("setting player difficulty: %w", err)
	}

	boss, err := e.store.RandomAirport(ctx, "")
	if errors.Is(err, ErrNotFound) {
		return 0, errNoAirports
	}
	if err != nil {
		return 0, fmt.Errorf("picking boss airport: %w", err)
	}

	return e.CreateSession(ctx, player.ID, difficulty, boss)
}

// CreateSession picks a random major-hub starting airport outside the boss
// airport's country and persists a fresh session: battery from the
// difficulty's starting configuration, zero puzzles solved, empty
// guessed-country list. Fails only when no candidate airport exists.
func (e *Engine) CreateSession(ctx context.Context, playerID int64, difficulty skyquiz.Difficulty, boss skyquiz.Airport) (int64, error) {
	start, err := e.store.RandomAirport(ctx, boss.CountryCode)
	if errors.Is(err, ErrNotFound) {
		return 0, errNoAirports
	}
	if err != nil {
		return 0, fmt.Errorf("picking starting airport: %w", err)
	}

	id, err := e.store.CreateSession(ctx, sessionRow{
		PlayerID:          playerID,
		Difficulty:        string(difficulty),
		StartingAirportID: start.ID,
		BossAirportID:     boss.ID,
		BossCountryCode:   boss.CountryCode,
		CurrentAirportID:  start.ID,
		BatteryLevel:      skyquiz.ClampBattery(e.rules.Starting(difficulty)),
		CountriesJSON:     skyquiz.CodeSet{}.JSON(),
	})
	if err != nil {
		return 0, fmt.Errorf("creating session: %w", err)
	}
	return id, nil
}

// LoadSession fetches a session and resolves its guessed-country codes to
// full Country records. Codes that no longer resolve are dropped silently;
// stale references must not break an otherwise valid session.
func (e *Engine) LoadSession(ctx context.Context, id int64) (*skyquiz.Session, error) {
	row, err := e.store.SessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	codes, err := skyquiz.ParseCodeSet(row.CountriesJSON)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", id, err)
	}

	sess := &skyquiz.Session{
		ID:                row.ID,
		PlayerID:          row.PlayerID,
		Difficulty:        skyquiz.Difficulty(row.Difficulty),
		StartingAirportID: row.StartingAirportID,
		BossAirportID:     row.BossAirportID,
		BossCountryCode:   row.BossCountryCode,
		CurrentAirportID:  row.CurrentAirportID,
		BatteryLevel:      row.BatteryLevel,
		PuzzlesSolved:     row.PuzzlesSolved,
		CountriesGuessed:  make([]skyquiz.Country, 0, len(codes)),
		Status:            skyquiz.Status(row.Status),
		Score:             row.Score,
	}

	for _, code := range codes {
		country, err := e.store.CountryByCode(ctx, code)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving guessed country %q: %w", code, err)
		}
		sess.CountriesGuessed = append(sess.CountriesGuessed, country)
	}

	if row.CompletedAt != nil {
		if t, err := time.Parse(time.RFC3339Nano, *row.CompletedAt); err == nil {
			sess.CompletedAt = &t
		}
	}
	return sess, nil
}

// ApplyChallengeOutcome records the result of one challenge: the player is
// now at airport, one more puzzle is solved, the airport's country joins
// the guessed set, and battery moves by the difficulty's reward or penalty.
// Each step persists immediately; there is no transaction spanning them.
func (e *Engine) ApplyChallengeOutcome(ctx context.Context, sess *skyquiz.Session, airport skyquiz.Airport, passed bool) error {
	country, err := e.store.CountryByCode(ctx, airport.CountryCode)
	if err != nil {
		return fmt.Errorf("resolving country %q for airport %d: %w", airport.CountryCode, airport.ID, err)
	}

	sess.CurrentAirportID = airport.ID
	if err := e.store.SetSessionAirport(ctx, sess.ID, airport.ID); err != nil {
		return fmt.Errorf("updating current airport: %w", err)
	}

	sess.PuzzlesSolved++
	if err := e.store.SetSessionPuzzlesSolved(ctx, sess.ID, sess.PuzzlesSolved); err != nil {
		return fmt.Errorf("updating puzzles solved: %w", err)
	}

	if sess.AddGuessedCountry(country) {
		if err := e.store.SetSessionCountries(ctx, sess.ID, sess.GuessedCodes().JSON()); err != nil {
			return fmt.Errorf("updating guessed countries: %w", err)
		}
	}

	delta := e.rules.Reward(sess.Difficulty)
	if !passed {
		delta = -e.rules.Penalty(sess.Difficulty)
	}
	sess.BatteryLevel = skyquiz.ClampBattery(sess.BatteryLevel + delta)
	if err := e.store.SetSessionBattery(ctx, sess.ID, sess.BatteryLevel); err != nil {
		return fmt.Errorf("updating battery: %w", err)
	}

	return nil
}

type PlayerInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GameStateResponse is the composite read-model of a session: metadata,
// resolved airports and countries, progress counters, and the owning
// player's public identity.
type GameStateResponse struct {
	SessionID        int64              `json:"session_id"`
	DifficultyLevel  skyquiz.Difficulty `json:"difficulty_level"`
	StartingAirport  *skyquiz.Airport   `json:"starting_airport"`
	BossAirport      *skyquiz.Airport   `json:"boss_airport"`
	BossCountry      *skyquiz.Country   `json:"boss_country"`
	CurrentAirport   *skyquiz.Airport   `json:"current_airport"`
	BatteryLevel     int                `json:"battery_level"`
	PuzzlesSolved    int                `json:"puzzles_solved"`
	CountriesGuessed []skyquiz.Country  `json:"countries_guessed"`
	Status           skyquiz.Status     `json:"status"`
	Score            int                `json:"score"`
	Player           PlayerInfo         `json:"player"`
}

// GameState assembles the composite view. Pure projection: its only side
// effects are the lookups it performs. References that no longer resolve
// (a deleted boss country, say) come back null rather than failing the view.
func (e *Engine) GameState(ctx context.Context, sess *skyquiz.Session) (GameStateResponse, error) {
	resp := GameStateResponse{
		SessionID:        sess.ID,
		DifficultyLevel:  sess.Difficulty,
		BatteryLevel:     sess.BatteryLevel,
		PuzzlesSolved:    sess.PuzzlesSolved,
		CountriesGuessed: sess.CountriesGuessed,
		Status:           sess.Status,
		Score:            sess.Score,
	}
	if resp.CountriesGuessed == nil {
		resp.CountriesGuessed = []skyquiz.Country{}
	}

	resp.StartingAirport = e.lookupAirport(ctx, sess.StartingAirportID)
	resp.BossAirport = e.lookupAirport(ctx, sess.BossAirportID)
	resp.CurrentAirport = e.lookupAirport(ctx, sess.CurrentAirportID)

	if country, err := e.store.CountryByCode(ctx, sess.BossCountryCode); err == nil {
		resp.BossCountry = &country
	}

	player, err := e.store.PlayerByID(ctx, sess.PlayerID)
	if err != nil {
		resp.Player = PlayerInfo{ID: -1, Name: "Unknown"}
	} else {
		resp.Player = PlayerInfo{ID: player.ID, Name: player.Name}
	}

	return resp, nil
}

func (e *Engine) lookupAirport(ctx context.Context, id int64) *skyquiz.Airport {
	airport, err := e.store.AirportByID(ctx, id)
	if err != nil {
		return nil
	}
	return &airport
}

// UpdateStatus sets the session status. Terminal statuses (won, lost,
// abandoned) also record a completion timestamp; a transition back to
// active leaves completed_at untouched.
func (e *Engine) UpdateStatus(ctx context.Context, sess *skyquiz.Session, status skyquiz.Status) error {
	sess.Status = status
	if status.Terminal() {
		now := time.Now().UTC()
		sess.CompletedAt = &now
	}
	if err := e.store.SetSessionStatus(ctx, sess.ID, status, status.Terminal()); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// Challenge picks the challenge type by a uniform coin flip and fetches a
// random question of the session's difficulty.
func (e *Engine) Challenge(ctx context.Context, sess *skyquiz.Session) (any, error) {
	if rand.IntN(2) == 0 {
		q, err := e.store.RandomOpenQuestion(ctx, sess.Difficulty)
		if err != nil {
			return nil, err
		}
		return q, nil
	}
	q, err := e.store.RandomMultipleChoice(ctx, sess.Difficulty)
	if err != nil {
		return nil, err
	}
	return q, nil
}
