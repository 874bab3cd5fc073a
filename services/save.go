package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

var ErrRouteNotFound = errors.New("route not found")

// SaveService toggles route bookmarks, mirroring the like toggle: composite-id
// existence check, create-or-delete, counter update on the user document.
type SaveService struct {
	store store.Store
}

func NewSaveService(st store.Store) *SaveService {
	return &SaveService{store: st}
}

// ToggleSave flips the save relation for a route and returns the new state.
// A snapshot of the route's display fields is denormalized into the save so
// the saved-routes view never re-fetches the original route.
func (s *SaveService) ToggleSave(ctx context.Context, routeID, userID string) (bool, error) {
	if routeID == "" || userID == "" {
		return false, errors.New("route id and user id are required")
	}

	saveID := models.SaveID(routeID, userID)

	var existing models.Save
	err := s.store.Get(ctx, "saves", saveID, &existing)
	switch {
	case errors.Is(err, store.ErrNotFound):
		var route models.Route
		if err := s.store.Get(ctx, "routes", routeID, &route); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return false, ErrRouteNotFound
			}
			return false, fmt.Errorf("failed to fetch route: %w", err)
		}

		save := models.Save{
			ID:      saveID,
			UserID:  userID,
			RouteID: routeID,
			Route: models.RouteSnapshot{
				ID:         routeID,
				Title:      route.Title,
				MainImage:  route.MainImage,
				Duration:   route.Duration,
				Difficulty: route.Difficulty,
				Cost:       route.Cost,
			},
			CreatedAt: time.Now(),
		}
		if err := s.store.Put(ctx, "saves", saveID, save); err != nil {
			return false, fmt.Errorf("failed to create save: %w", err)
		}
		if err := s.store.Update(ctx, "users", userID, store.Update{
			Inc: map[string]int64{"savedRoutes": 1},
		}); err != nil {
			return false, fmt.Errorf("failed to increment saved count: %w", err)
		}
		return true, nil

	case err == nil:
		if err := s.store.Delete(ctx, "saves", saveID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, fmt.Errorf("failed to remove save: %w", err)
		}
		if err := s.store.Update(ctx, "users", userID, store.Update{
			IncFloor: map[string]int64{"savedRoutes": -1},
		}); err != nil {
			return false, fmt.Errorf("failed to decrement saved count: %w", err)
		}
		return false, nil

	default:
		return false, fmt.Errorf("failed to check save: %w", err)
	}
}

// Saved reports whether the user has saved the route.
func (s *SaveService) Saved(ctx context.Context, routeID, userID string) (bool, error) {
	var save models.Save
	err := s.store.Get(ctx, "saves", models.SaveID(routeID, userID), &save)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListSaved returns the user's saved routes, newest save first.
func (s *SaveService) ListSaved(ctx context.Context, userID string) ([]models.Save, error) {
	var saves []models.Save
	err := s.store.Query(ctx, "saves", store.Query{
		Filters: []store.Filter{{Field: "userId", Value: userID}},
		OrderBy: "createdAt",
		Desc:    true,
	}, &saves)
	if err != nil {
		return nil, err
	}
	return saves, nil
}
