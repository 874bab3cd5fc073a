package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

func newSaveFixture(t *testing.T) (*SaveService, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	svc := NewSaveService(st)
	seedUser(t, st, "u1", "Uma")
	err := st.Put(context.Background(), "routes", "r1", models.Route{
		CreatedBy:  "owner",
		Title:      "Ring Road in 7 days",
		MainImage:  "https://img.example.com/ring.jpg",
		Duration:   "7 days",
		Difficulty: models.DifficultyMedium,
		Cost:       "$$",
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed route: %v", err)
	}
	return svc, st
}

func TestToggleSaveRoundtrip(t *testing.T) {
	ctx := context.Background()
	svc, st := newSaveFixture(t)

	saved, err := svc.ToggleSave(ctx, "r1", "u1")
	if err != nil {
		t.Fatalf("ToggleSave failed: %v", err)
	}
	if !saved {
		t.Errorf("Expected saved true")
	}

	var user models.User
	if err := st.Get(ctx, "users", "u1", &user); err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	if user.SavedRoutes != 1 {
		t.Errorf("Expected savedRoutes 1, got %d", user.SavedRoutes)
	}

	saved, err = svc.ToggleSave(ctx, "r1", "u1")
	if err != nil {
		t.Fatalf("Second ToggleSave failed: %v", err)
	}
	if saved {
		t.Errorf("Expected saved false after second toggle")
	}
	if err := st.Get(ctx, "users", "u1", &user); err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	if user.SavedRoutes != 0 {
		t.Errorf("Expected savedRoutes back at 0, got %d", user.SavedRoutes)
	}
	count, _ := st.Count(ctx, "saves")
	if count != 0 {
		t.Errorf("Expected save relation removed, got %d", count)
	}
}

func TestToggleSaveSnapshotsRoute(t *testing.T) {
	ctx := context.Background()
	svc, st := newSaveFixture(t)

	if _, err := svc.ToggleSave(ctx, "r1", "u1"); err != nil {
		t.Fatalf("ToggleSave failed: %v", err)
	}

	var save models.Save
	if err := st.Get(ctx, "saves", models.SaveID("r1", "u1"), &save); err != nil {
		t.Fatalf("Get save failed: %v", err)
	}
	snap := save.Route
	if snap.Title != "Ring Road in 7 days" || snap.Duration != "7 days" || snap.Cost != "$$" {
		t.Errorf("Snapshot missing route fields: %+v", snap)
	}

	// Editing the route afterwards must not change the stored snapshot.
	err := st.Update(ctx, "routes", "r1", store.Update{
		Set: map[string]any{"title": "Renamed"},
	})
	if err != nil {
		t.Fatalf("Update route failed: %v", err)
	}
	if err := st.Get(ctx, "saves", models.SaveID("r1", "u1"), &save); err != nil {
		t.Fatalf("Get save failed: %v", err)
	}
	if save.Route.Title != "Ring Road in 7 days" {
		t.Errorf("Snapshot should be frozen at save time, got %q", save.Route.Title)
	}
}

func TestToggleSaveMissingRoute(t *testing.T) {
	svc, _ := newSaveFixture(t)
	_, err := svc.ToggleSave(context.Background(), "ghost", "u1")
	if !errors.Is(err, ErrRouteNotFound) {
		t.Errorf("Expected ErrRouteNotFound, got %v", err)
	}
}

func TestSavedCounterNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc, st := newSaveFixture(t)

	// Seed a stray relation with no counter behind it; removing it clamps.
	err := st.Put(ctx, "saves", models.SaveID("r1", "u1"), models.Save{
		UserID:    "u1",
		RouteID:   "r1",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed save: %v", err)
	}
	if _, err := svc.ToggleSave(ctx, "r1", "u1"); err != nil {
		t.Fatalf("ToggleSave failed: %v", err)
	}

	var user models.User
	if err := st.Get(ctx, "users", "u1", &user); err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	if user.SavedRoutes != 0 {
		t.Errorf("Expected savedRoutes clamped at 0, got %d", user.SavedRoutes)
	}
}

func TestListSavedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, st := newSaveFixture(t)
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	for i, routeID := range []string{"r1", "r2", "r3"} {
		err := st.Put(ctx, "saves", models.SaveID(routeID, "u1"), models.Save{
			UserID:    "u1",
			RouteID:   routeID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Failed to seed save: %v", err)
		}
	}

	saves, err := svc.ListSaved(ctx, "u1")
	if err != nil {
		t.Fatalf("ListSaved failed: %v", err)
	}
	if len(saves) != 3 {
		t.Fatalf("Expected 3 saves, got %d", len(saves))
	}
	if saves[0].RouteID != "r3" || saves[2].RouteID != "r1" {
		t.Errorf("Wrong order: %s .. %s", saves[0].RouteID, saves[2].RouteID)
	}
}
