package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

// errInvalidSave marks a snapshot blob that no longer decodes.
var errInvalidSave = errors.New("invalid save data")

// DefaultSaveName is used when a save request names no slot.
const DefaultSaveName = "autosave"

// SaveSnapshot is the JSON blob written to game_save.game_data: the
// session's field values at save time, guessed countries as raw codes.
type SaveSnapshot struct {
	SessionID         int64              `json:"session_id"`
	DifficultyLevel   skyquiz.Difficulty `json:"difficulty_level"`
	StartingAirportID int64              `json:"starting_airport_id"`
	BossAirportID     int64              `json:"boss_airport_id"`
	BossCountryCode   string             `json:"boss_country_code"`
	CurrentAirportID  int64              `json:"current_airport_id"`
	BatteryLevel      int                `json:"battery_level"`
	PuzzlesSolved     int                `json:"puzzles_solved"`
	CountriesGuessed  skyquiz.CodeSet    `json:"countries_guessed"`
	Status            skyquiz.Status     `json:"status"`
	Score             int                `json:"score"`
	SaveTimestamp     string             `json:"save_timestamp"`
}

// SavePreview is the lightweight summary shown in save listings, parsed
// defensively from the blob.
type SavePreview struct {
	Difficulty       string `json:"difficulty"`
	Battery          int    `json:"battery"`
	PuzzlesSolved    int    `json:"puzzles_solved"`
	CountriesGuessed int    `json:"countries_guessed"`
	Status           string `json:"status"`
	Invalid          bool   `json:"invalid,omitempty"`
}

type SaveSummary struct {
	ID        int64       `json:"id"`
	SaveName  string      `json:"save_name"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
	Preview   SavePreview `json:"preview"`
}

// Saves serializes session snapshots to and from game_save blobs keyed by
// (player id, save name).
type Saves struct {
	store Store
}

func NewSaves(store Store) *Saves {
	return &Saves{store: store}
}

// SaveGame upserts a snapshot of sess under (playerID, name).
func (s *Saves) SaveGame(ctx context.Context, playerID int64, sess *skyquiz.Session, name string) error {
	if name == "" {
		name = DefaultSaveName
	}
	snap := SaveSnapshot{
		SessionID:         sess.ID,
		DifficultyLevel:   sess.Difficulty,
		StartingAirportID: sess.StartingAirportID,
		BossAirportID:     sess.BossAirportID,
		BossCountryCode:   sess.BossCountryCode,
		CurrentAirportID:  sess.CurrentAirportID,
		BatteryLevel:      sess.BatteryLevel,
		PuzzlesSolved:     sess.PuzzlesSolved,
		CountriesGuessed:  sess.GuessedCodes(),
		Status:            sess.Status,
		Score:             sess.Score,
		SaveTimestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if snap.CountriesGuessed == nil {
		snap.CountriesGuessed = skyquiz.CodeSet{}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.store.UpsertSave(ctx, playerID, name, string(data)); err != nil {
		return fmt.Errorf("writing save %q: %w", name, err)
	}
	return nil
}

// PlayerSaves lists a player's saves, most recently updated first. A blob
// that fails to parse yields a preview marked invalid instead of failing
// the whole listing.
func (s *Saves) PlayerSaves(ctx context.Context, playerID int64) ([]SaveSummary, error) {
	rows, err := s.store.SavesByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]SaveSummary, 0, len(rows))
	for _, row := range rows {
		summary := SaveSummary{
			ID:        row.ID,
			SaveName:  row.SaveName,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}

		var snap SaveSnapshot
		if err := json.Unmarshal([]byte(row.Data), &snap); err != nil {
			summary.Preview = SavePreview{Invalid: true}
		} else {
			summary.Preview = SavePreview{
				Difficulty:       string(snap.DifficultyLevel),
				Battery:          snap.BatteryLevel,
				PuzzlesSolved:    snap.PuzzlesSolved,
				CountriesGuessed: len(snap.CountriesGuessed),
				Status:           string(snap.Status),
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// LoadGame returns the decoded snapshot for (playerID, name).
func (s *Saves) LoadGame(ctx context.Context, playerID int64, name string) (SaveSnapshot, error) {
	var snap SaveSnapshot
	data, err := s.store.SaveData(ctx, playerID, name)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return snap, fmt.Errorf("%w: %v", errInvalidSave, err)
	}
	return snap, nil
}

// DeleteSave removes the save slot. ErrNotFound when it never existed.
func (s *Saves) DeleteSave(ctx context.Context, playerID int64, name string) error {
	return s.store.DeleteSave(ctx, playerID, name)
}

// RestoreSession turns a snapshot back into session fields. Guessed
// countries stay raw codes: only the code field of each Country is set;
// callers needing full records go through Engine.LoadSession.
func RestoreSession(playerID int64, snap SaveSnapshot) *skyquiz.Session {
	sess := &skyquiz.Session{
		ID:                snap.SessionID,
		PlayerID:          playerID,
		Difficulty:        snap.DifficultyLevel,
		StartingAirportID: snap.StartingAirportID,
		BossAirportID:     snap.BossAirportID,
		BossCountryCode:   snap.BossCountryCode,
		CurrentAirportID:  snap.CurrentAirportID,
		BatteryLevel:      snap.BatteryLevel,
		PuzzlesSolved:     snap.PuzzlesSolved,
		Status:            snap.Status,
		Score:             snap.Score,
	}
	for _, code := range snap.CountriesGuessed {
		sess.CountriesGuessed = append(sess.CountriesGuessed, skyquiz.Country{Code: code})
	}
	return sess
}
