package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed loads the demo reference data (countries, airports, and a question
// bank per difficulty) if the country table is empty. Idempotent: does
// nothing on a populated database.
func Seed(ctx context.Context, logger *slog.Logger, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM country`).Scan(&count); err != nil {
		return fmt.Errorf("checking reference data: %w", err)
	}
	if count > 0 {
		return nil
	}

	countries := []struct {
		code, name, continent string
	}{
		{"FI", "Finland", "Europe"},
		{"FR", "France", "Europe"},
		{"DE", "Germany", "Europe"},
		{"GB", "United Kingdom", "Europe"},
		{"US", "United States", "North America"},
		{"JP", "Japan", "Asia"},
		{"SG", "Singapore", "Asia"},
		{"AE", "United Arab Emirates", "Asia"},
		{"BR", "Brazil", "South America"},
		{"ZA", "South Africa", "Africa"},
		{"AU", "Australia", "Oceania"},
	}
	for _, c := range countries {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO country (code, name, continent) VALUES (?, ?, ?)
		`, c.code, c.name, c.continent); err != nil {
			return fmt.Errorf("seeding country %s: %w", c.code, err)
		}
	}

	airports := []struct {
		icao, iata, name, city, country string
		lat, lng                        float64
		elevation                       int
		major                           bool
	}{
		{"EFHK", "HEL", "Helsinki-Vantaa Airport", "Helsinki", "FI", 60.3172, 24.9633, 179, true},
		{"LFPG", "CDG", "Charles de Gaulle Airport", "Paris", "FR", 49.0097, 2.5479, 392, true},
		{"EDDF", "FRA", "Frankfurt Airport", "Frankfurt", "DE", 50.0379, 8.5622, 364, true},
		{"EGLL", "LHR", "Heathrow Airport", "London", "GB", 51.4700, -0.4543, 83, true},
		{"KJFK", "JFK", "John F. Kennedy International Airport", "New York", "US", 40.6413, -73.7781, 13, true},
		{"RJTT", "HND", "Tokyo Haneda Airport", "Tokyo", "JP", 35.5494, 139.7798, 35, true},
		{"WSSS", "SIN", "Singapore Changi Airport", "Singapore", "SG", 1.3644, 103.9915, 22, true},
		{"OMDB", "DXB", "Dubai International Airport", "Dubai", "AE", 25.2532, 55.3657, 62, true},
		{"SBGR", "GRU", "Sao Paulo-Guarulhos International Airport", "Sao Paulo", "BR", -23.4356, -46.4731, 2459, true},
		{"FAOR", "JNB", "O. R. Tambo International Airport", "Johannesburg", "ZA", -26.1392, 28.2460, 5558, true},
		{"YSSY", "SYD", "Sydney Kingsford Smith Airport", "Sydney", "AU", -33.9399, 151.1753, 21, true},
		{"EFRO", "RVN", "Rovaniemi Airport", "Rovaniemi", "FI", 66.5648, 25.8304, 642, false},
		{"LFMN", "NCE", "Nice Cote d'Azur Airport", "Nice", "FR", 43.6584, 7.2159, 12, false},
	}
	for _, a := range airports {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO airport
				(icao_code, iata_code, name, city, country_code, latitude, longitude, elevation_ft, is_major_hub)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.icao, a.iata, a.name, a.city, a.country, a.lat, a.lng, a.elevation, a.major); err != nil {
			return fmt.Errorf("seeding airport %s: %w", a.icao, err)
		}
	}

	openQuestions := []struct {
		question, answer, difficulty string
	}{
		{"Which city is the capital of Finland?", "Helsinki", "easy"},
		{"On which continent is France located?", "Europe", "easy"},
		{"What is the capital of Japan?", "Tokyo", "easy"},
		{"Which country does the IATA code CDG belong to?", "France", "medium"},
		{"Which desert country hosts the world's busiest international airport?", "United Arab Emirates", "medium"},
		{"What is the capital of South Africa's Gauteng province?", "Johannesburg", "medium"},
		{"Which airport's ICAO code is WSSS?", "Singapore Changi Airport", "hard"},
		{"Which Brazilian city is served by Guarulhos airport?", "Sao Paulo", "hard"},
		{"What is the ICAO prefix for airports in the United Kingdom?", "EG", "hard"},
	}
	for _, q := range openQuestions {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO question_task (question, correct_answer, difficulty_level)
			VALUES (?, ?, ?)
		`, q.question, q.answer, q.difficulty); err != nil {
			return fmt.Errorf("seeding open question: %w", err)
		}
	}

	mcQuestions := []struct {
		question, difficulty string
		options              []string
		correct              int
	}{
		{"Which of these cities is in Finland?", "easy",
			[]string{"Helsinki", "Oslo", "Stockholm", "Copenhagen"}, 0},
		{"Which continent is Australia part of?", "easy",
			[]string{"Asia", "Oceania", "Africa", "Europe"}, 1},
		{"Which airport serves Paris?", "medium",
			[]string{"Heathrow", "Schiphol", "Charles de Gaulle", "Tegel"}, 2},
		{"What does the IATA code JNB stand for?", "medium",
			[]string{"Johannesburg", "Jakarta", "Jeddah", "Juneau"}, 0},
		{"Which of these airports has the highest elevation?", "hard",
			[]string{"Heathrow", "Changi", "O. R. Tambo", "Haneda"}, 2},
		{"Which ICAO code belongs to Tokyo Haneda?", "hard",
			[]string{"RJAA", "RJTT", "RKSI", "ZBAA"}, 1},
	}
	for _, q := range mcQuestions {
		var questionID int64
		if err := db.QueryRowContext(ctx, `
			INSERT INTO multiple_choice_question (question, difficulty_level)
			VALUES (?, ?)
			RETURNING id
		`, q.question, q.difficulty).Scan(&questionID); err != nil {
			return fmt.Errorf("seeding multiple-choice question: %w", err)
		}
		for i, opt := range q.options {
			if _, err := db.ExecContext(ctx, `
				INSERT INTO multiple_choice_answer (question_id, answer, is_correct)
				VALUES (?, ?, ?)
			`, questionID, opt, i == q.correct); err != nil {
				return fmt.Errorf("seeding multiple-choice answer: %w", err)
			}
		}
	}

	logger.Info("seeded demo reference data",
		"countries", len(countries),
		"airports", len(airports),
		"open_questions", len(openQuestions),
		"multiple_choice_questions", len(mcQuestions),
	)
	return nil
}
