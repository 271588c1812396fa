package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flightcrew/skyquiz/internal/skyquiz"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const airportColumns = `
	a.id, a.icao_code, a.iata_code, a.name, a.city, a.country_code,
	a.latitude, a.longitude, a.elevation_ft, c.continent, c.name, a.is_major_hub`

func scanAirport(row interface{ Scan(...any) error }) (skyquiz.Airport, error) {
	var a skyquiz.Airport
	err := row.Scan(&a.ID, &a.ICAOCode, &a.IATACode, &a.Name, &a.City, &a.CountryCode,
		&a.Latitude, &a.Longitude, &a.ElevationFt, &a.Continent, &a.CountryName, &a.IsMajorHub)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// GetOrCreatePlayer inserts a player row or, when the name already exists,
// returns the existing row unchanged.
func (s *SQLiteStore) GetOrCreatePlayer(ctx context.Context, name string, battery int, difficulty skyquiz.Difficulty) (skyquiz.Player, error) {
	var p skyquiz.Player
	var airportID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO player (name, battery_level, difficulty_level)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING id, name, current_airport_id, battery_level, difficulty_level
	`, name, battery, string(difficulty)).Scan(&p.ID, &p.Name, &airportID, &p.BatteryLevel, &p.Difficulty)
	if err != nil {
		return p, err
	}
	if airportID.Valid {
		p.CurrentAirportID = &airportID.Int64
	}
	return p, nil
}

func (s *SQLiteStore) PlayerByID(ctx context.Context, id int64) (skyquiz.Player, error) {
	var p skyquiz.Player
	var airportID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, current_airport_id, battery_level, difficulty_level
		FROM player WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &airportID, &p.BatteryLevel, &p.Difficulty)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if airportID.Valid {
		p.CurrentAirportID = &airportID.Int64
	}
	return p, err
}

func (s *SQLiteStore) SetPlayerBattery(ctx context.Context, id int64, level int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE player SET battery_level = ? WHERE id = ?`, level, id)
	return err
}

func (s *SQLiteStore) SetPlayerDifficulty(ctx context.Context, id int64, d skyquiz.Difficulty) error {
	_, err := s.db.ExecContext(ctx, `UPDATE player SET difficulty_level = ? WHERE id = ?`, string(d), id)
	return err
}

func (s *SQLiteStore) ListAirports(ctx context.Context) ([]skyquiz.Airport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+airportColumns+`
		FROM airport a
		JOIN country c ON c.code = a.country_code
		ORDER BY a.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airports []skyquiz.Airport
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (s *SQLiteStore) AirportByID(ctx context.Context, id int64) (skyquiz.Airport, error) {
	return scanAirport(s.db.QueryRowContext(ctx, `
		SELECT `+airportColumns+`
		FROM airport a
		JOIN country c ON c.code = a.country_code
		WHERE a.id = ?
	`, id))
}

func (s *SQLiteStore) AirportByName(ctx context.Context, name string) (skyquiz.Airport, error) {
	return scanAirport(s.db.QueryRowContext(ctx, `
		SELECT `+airportColumns+`
		FROM airport a
		JOIN country c ON c.code = a.country_code
		WHERE LOWER(a.name) = LOWER(?)
	`, name))
}

// RandomAirport picks a major hub uniformly at random. A non-empty
// excludeCountry removes that country's airports from the candidate pool.
func (s *SQLiteStore) RandomAirport(ctx context.Context, excludeCountry string) (skyquiz.Airport, error) {
	return scanAirport(s.db.QueryRowContext(ctx, `
		SELECT `+airportColumns+`
		FROM airport a
		JOIN country c ON c.code = a.country_code
		WHERE a.is_major_hub = 1 AND (? = '' OR a.country_code <> ?)
		ORDER BY RANDOM() LIMIT 1
	`, excludeCountry, excludeCountry))
}

func (s *SQLiteStore) CountryByCode(ctx context.Context, code string) (skyquiz.Country, error) {
	var c skyquiz.Country
	err := s.db.QueryRowContext(ctx, `
		SELECT code, name, continent FROM country WHERE code = ?
	`, code).Scan(&c.Code, &c.Name, &c.Continent)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) CountryByName(ctx context.Context, name string) (skyquiz.Country, error) {
	var c skyquiz.Country
	err := s.db.QueryRowContext(ctx, `
		SELECT code, name, continent FROM country WHERE LOWER(name) = LOWER(?)
	`, name).Scan(&c.Code, &c.Name, &c.Continent)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) RandomOpenQuestion(ctx context.Context, d skyquiz.Difficulty) (skyquiz.OpenQuestion, error) {
	q := skyquiz.OpenQuestion{Type: skyquiz.ChallengeOpenQuestion}
	err := s.db.QueryRowContext(ctx, `
		SELECT question, correct_answer FROM question_task
		WHERE difficulty_level = ?
		ORDER BY RANDOM() LIMIT 1
	`, string(d)).Scan(&q.Question, &q.Answer)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	return q, err
}

func (s *SQLiteStore) RandomMultipleChoice(ctx context.Context, d skyquiz.Difficulty) (skyquiz.MultipleChoiceQuestion, error) {
	q := skyquiz.MultipleChoiceQuestion{Type: skyquiz.ChallengeMultipleChoice}
	var questionID int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question FROM multiple_choice_question
		WHERE difficulty_level = ?
		ORDER BY RANDOM() LIMIT 1
	`, string(d)).Scan(&questionID, &q.Question)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	if err != nil {
		return q, err
	}

	// Options come back shuffled so the correct one never has a fixed slot.
	rows, err := s.db.QueryContext(ctx, `
		SELECT answer, is_correct FROM multiple_choice_answer
		WHERE question_id = ?
		ORDER BY RANDOM()
	`, questionID)
	if err != nil {
		return q, err
	}
	defer rows.Close()

	for rows.Next() {
		var opt skyquiz.MultipleChoiceOption
		if err := rows.Scan(&opt.Name, &opt.IsCorrect); err != nil {
			return q, err
		}
		q.Options = append(q.Options, opt)
	}
	return q, rows.Err()
}

func (s *SQLiteStore) CreateSession(ctx context.Context, row sessionRow) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO game_session
			(player_id, difficulty_level, starting_airport_id, boss_airport_id,
			 boss_country_code, current_airport_id, battery_level, countries_guessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, row.PlayerID, row.Difficulty, row.StartingAirportID, row.BossAirportID,
		row.BossCountryCode, row.CurrentAirportID, row.BatteryLevel, row.CountriesJSON).Scan(&id)
	return id, err
}

func (s *SQLiteStore) SessionByID(ctx context.Context, id int64) (sessionRow, error) {
	var row sessionRow
	var completedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, player_id, difficulty_level, starting_airport_id, boss_airport_id,
			boss_country_code, current_airport_id, battery_level, puzzles_solved,
			countries_guessed, status, score, completed_at
		FROM game_session WHERE id = ?
	`, id).Scan(&row.ID, &row.PlayerID, &row.Difficulty, &row.StartingAirportID,
		&row.BossAirportID, &row.BossCountryCode, &row.CurrentAirportID,
		&row.BatteryLevel, &row.PuzzlesSolved, &row.CountriesJSON, &row.Status,
		&row.Score, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return row, ErrNotFound
	}
	if completedAt.Valid {
		row.CompletedAt = &completedAt.String
	}
	return row, err
}

func (s *SQLiteStore) SetSessionAirport(ctx context.Context, id, airportID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE game_session SET current_airport_id = ? WHERE id = ?`, airportID, id)
	return err
}

func (s *SQLiteStore) SetSessionBattery(ctx context.Context, id int64, level int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE game_session SET battery_level = ? WHERE id = ?`, level, id)
	return err
}

func (s *SQLiteStore) SetSessionPuzzlesSolved(ctx context.Context, id int64, n int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE game_session SET puzzles_solved = ? WHERE id = ?`, n, id)
	return err
}

func (s *SQLiteStore) SetSessionCountries(ctx context.Context, id int64, codesJSON string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE game_session SET countries_guessed = ? WHERE id = ?`, codesJSON, id)
	return err
}

func (s *SQLiteStore) SetSessionStatus(ctx context.Context, id int64, status skyquiz.Status, completed bool) error {
	if completed {
		_, err := s.db.ExecContext(ctx, `
			UPDATE game_session
			SET status = ?, completed_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE id = ?
		`, string(status), id)
		return err
	}
	_, err := s.db.ExecContext(ctx, `UPDATE game_session SET status = ? WHERE id = ?`, string(status), id)
	return err
}

func (s *SQLiteStore) UpsertSave(ctx context.Context, playerID int64, name, data string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_save (player_id, save_name, game_data)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id, save_name) DO UPDATE SET
			game_data = excluded.game_data,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, playerID, name, data)
	return err
}

func (s *SQLiteStore) SavesByPlayer(ctx context.Context, playerID int64) ([]saveRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, save_name, game_data, created_at, updated_at
		FROM game_save
		WHERE player_id = ?
		ORDER BY updated_at DESC
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saves []saveRow
	for rows.Next() {
		var sr saveRow
		if err := rows.Scan(&sr.ID, &sr.SaveName, &sr.Data, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
			return nil, err
		}
		saves = append(saves, sr)
	}
	return saves, rows.Err()
}

func (s *SQLiteStore) SaveData(ctx context.Context, playerID int64, name string) (string, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT game_data FROM game_save WHERE player_id = ? AND save_name = ?
	`, playerID, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return data, err
}

func (s *SQLiteStore) DeleteSave(ctx context.Context, playerID int64, name string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM game_save WHERE player_id = ? AND save_name = ?
	`, playerID, name)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
