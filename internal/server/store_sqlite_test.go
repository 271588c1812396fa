package server

import (
	"context"
	"errors"
	"testing"
)

func TestReferenceLookupsCaseInsensitive(t *testing.T) {
	store := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	country, err := store.CountryByName(ctx, "fInLaNd")
	if err != nil {
		t.Fatalf("CountryByName: %v", err)
	}
	if country.Code != "FI" || country.Continent != "Europe" {
		t.Errorf("unexpected country: %+v", country)
	}

	airport, err := store.AirportByName(ctx, "heathrow airport")
	if err != nil {
		t.Fatalf("AirportByName: %v", err)
	}
	if airport.ICAOCode != "EGLL" {
		t.Errorf("unexpected airport: %+v", airport)
	}
	if airport.CountryName != "United Kingdom" {
		t.Errorf("country name not joined: %+v", airport)
	}

	if _, err := store.CountryByName(ctx, "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing country: got %v, want ErrNotFound", err)
	}
	if _, err := store.CountryByCode(ctx, "XX"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing code: got %v, want ErrNotFound", err)
	}
}

func TestListAirportsJoinsCountry(t *testing.T) {
	store := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	airports, err := store.ListAirports(ctx)
	if err != nil {
		t.Fatalf("ListAirports: %v", err)
	}
	if len(airports) < 10 {
		t.Fatalf("expected seeded airports, got %d", len(airports))
	}
	for _, a := range airports {
		if a.CountryName == "" || a.Continent == "" {
			t.Errorf("airport %s missing joined country fields", a.ICAOCode)
		}
	}
}
