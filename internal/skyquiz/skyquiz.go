// Package skyquiz defines the core domain types and game rules.
// It has no external dependencies; everything here is pure Go.
package skyquiz

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Difficulty is stored and transmitted as a lowercase string.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes s (trims whitespace, lowercases) and validates
// it against the closed set of difficulty levels.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("invalid difficulty level %q: choose from 'easy', 'medium', 'hard'", s)
	}
}

// Status is a session's lifecycle state, stored as a lowercase string.
type Status string

const (
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusAbandoned Status = "abandoned"
)

// ParseStatus normalizes s and validates it against the closed status set.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusWon, StatusLost, StatusAbandoned:
		return st, nil
	default:
		return "", fmt.Errorf("invalid session status %q: choose from 'active', 'won', 'lost', 'abandoned'", s)
	}
}

// Terminal reports whether the status ends a session. Won, lost and
// abandoned sessions get a completion timestamp; active ones never do.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusAbandoned
}

// ClampBattery bounds a battery level to [0,100].
func ClampBattery(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

type Country struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Continent string `json:"continent"`
}

type Airport struct {
	ID          int64   `json:"id"`
	ICAOCode    string  `json:"icao_code"`
	IATACode    string  `json:"iata_code"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ElevationFt int64   `json:"elevation_ft"`
	Continent   string  `json:"continent"`
	IsMajorHub  bool    `json:"is_major_hub"`
}

type Player struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	CurrentAirportID *int64     `json:"current_airport_id"`
	BatteryLevel     int        `json:"battery_level"`
	Difficulty       Difficulty `json:"difficulty_level"`
}

// Session is one playthrough: a player flying from a starting airport
// toward a boss airport, accumulating guessed countries along the way.
type Session struct {
	ID                int64
	PlayerID          int64
	Difficulty        Difficulty
	StartingAirportID int64
	BossAirportID     int64
	BossCountryCode   string
	CurrentAirportID  int64
	BatteryLevel      int
	PuzzlesSolved     int
	CountriesGuessed  []Country
	Status            Status
	Score             int
	CompletedAt       *time.Time
}

// AddGuessedCountry appends c to the guessed list if its code is not
// already present. Returns true when the list changed.
func (s *Session) AddGuessedCountry(c Country) bool {
	for _, g := range s.CountriesGuessed {
		if g.Code == c.Code {
			return false
		}
	}
	s.CountriesGuessed = append(s.CountriesGuessed, c)
	return true
}

// GuessedCodes returns the guessed-country codes in insertion order.
func (s *Session) GuessedCodes() CodeSet {
	codes := make(CodeSet, 0, len(s.CountriesGuessed))
	for _, c := range s.CountriesGuessed {
		codes = append(codes, c.Code)
	}
	return codes
}

// CodeSet is an ordered set of country codes. It is the storage
// representation of a session's guessed countries: serialized as a JSON
// array in the countries_guessed column, byte-stable across round trips.
type CodeSet []string

func (cs CodeSet) Has(code string) bool {
	for _, c := range cs {
		if c == code {
			return true
		}
	}
	return false
}

// Add appends code if absent. Returns true when the set changed.
func (cs *CodeSet) Add(code string) bool {
	if cs.Has(code) {
		return false
	}
	*cs = append(*cs, code)
	return true
}

// JSON serializes the set as a JSON array. An empty set yields "[]",
// never "null".
func (cs CodeSet) JSON() string {
	if len(cs) == 0 {
		return "[]"
	}
	data, _ := json.Marshal([]string(cs))
	return string(data)
}

// ParseCodeSet decodes a countries_guessed column value, deduplicating
// while preserving order. An empty or NULL column yields an empty set.
func ParseCodeSet(raw string) (CodeSet, error) {
	if raw == "" {
		return CodeSet{}, nil
	}
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		return nil, fmt.Errorf("decoding country codes: %w", err)
	}
	set := make(CodeSet, 0, len(codes))
	for _, c := range codes {
		set.Add(c)
	}
	return set, nil
}

// Challenge type discriminators, embedded in every challenge payload.
const (
	ChallengeOpenQuestion   = "open_question"
	ChallengeMultipleChoice = "multiple_choice"
)

type OpenQuestion struct {
	Type     string `json:"type"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type MultipleChoiceOption struct {
	Name      string `json:"name"`
	IsCorrect bool   `json:"is_correct"`
}

type MultipleChoiceQuestion struct {
	Type     string                 `json:"type"`
	Question string                 `json:"question"`
	Options  []MultipleChoiceOption `json:"options"`
}

// Rules holds the per-difficulty battery tuning. Values come from the
// environment via config; the zero difficulty falls back to the defaults.
type Rules struct {
	DefaultBattery  int
	StartingBattery map[Difficulty]int
	BatteryReward   map[Difficulty]int
	BatteryPenalty  map[Difficulty]int
}

func (r Rules) Starting(d Difficulty) int {
	if v, ok := r.StartingBattery[d]; ok {
		return v
	}
	return r.DefaultBattery
}

func (r Rules) Reward(d Difficulty) int {
	if v, ok := r.BatteryReward[d]; ok {
		return v
	}
	return 15
}

func (r Rules) Penalty(d Difficulty) int {
	if v, ok := r.BatteryPenalty[d]; ok {
		return v
	}
	return 0
}
