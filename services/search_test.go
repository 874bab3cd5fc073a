package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

// recordingStore captures the query sent to each collection.
type recordingStore struct {
	store.Store
	mu      sync.Mutex
	queries map[string]store.Query
}

func newRecordingStore(inner store.Store) *recordingStore {
	return &recordingStore{Store: inner, queries: make(map[string]store.Query)}
}

func (s *recordingStore) Query(ctx context.Context, collection string, q store.Query, out any) error {
	s.mu.Lock()
	s.queries[collection] = q
	s.mu.Unlock()
	return s.Store.Query(ctx, collection, q, out)
}

func TestSearchShortTermReturnsEmptyWithoutFetching(t *testing.T) {
	rec := newRecordingStore(store.NewMemory())
	svc := NewSearchService(rec)

	for _, term := range []string{"", "a"} {
		results, err := svc.Search(context.Background(), term)
		if err != nil {
			t.Fatalf("Search(%q) failed: %v", term, err)
		}
		if results.Stories == nil || results.Routes == nil || results.Posts == nil {
			t.Errorf("Search(%q) returned nil slices", term)
		}
		if len(results.Stories)+len(results.Routes)+len(results.Posts) != 0 {
			t.Errorf("Search(%q) returned results", term)
		}
	}
	if len(rec.queries) != 0 {
		t.Errorf("Short terms must not hit the store, saw queries for %v", rec.queries)
	}
}

func TestSearchFetchesBoundedRecentSlices(t *testing.T) {
	rec := newRecordingStore(store.NewMemory())
	svc := NewSearchService(rec)

	if _, err := svc.Search(context.Background(), "beach"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for _, collection := range []string{"stories", "routes", "posts"} {
		q, ok := rec.queries[collection]
		if !ok {
			t.Errorf("Expected a query against %s", collection)
			continue
		}
		if q.Limit != 50 {
			t.Errorf("Expected %s fetch limited to 50, got %d", collection, q.Limit)
		}
		if q.OrderBy != "createdAt" || !q.Desc {
			t.Errorf("Expected %s fetch ordered createdAt desc, got %+v", collection, q)
		}
	}
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewSearchService(st)

	seedSearchStory(t, st, "s1", "Hiking in Patagonia", nil, time.Now())
	seedSearchStory(t, st, "s2", "City weekend", []string{"patagonia", "budget"}, time.Now())
	seedSearchStory(t, st, "s3", "Desert drive", nil, time.Now())

	err := st.Put(ctx, "routes", "r1", models.Route{
		CreatedBy:  "owner",
		Title:      "Coastal loop",
		Stops:      []models.Stop{{Location: "Patagonia National Park"}},
		Difficulty: models.DifficultyMedium,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed route: %v", err)
	}

	results, err := svc.Search(ctx, "Patagonia")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Stories) != 2 {
		t.Errorf("Expected 2 story matches (title and tag), got %d", len(results.Stories))
	}
	if len(results.Routes) != 1 {
		t.Errorf("Expected 1 route match via stop location, got %d", len(results.Routes))
	}
	if len(results.Posts) != 0 {
		t.Errorf("Expected no post matches, got %d", len(results.Posts))
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewSearchService(st)

	seedSearchStory(t, st, "s1", "KYOTO in autumn", nil, time.Now())

	results, err := svc.Search(ctx, "kyoto")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Stories) != 1 {
		t.Errorf("Expected case-insensitive match, got %d stories", len(results.Stories))
	}
}

func TestSearchOnlySeesRecentDocuments(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	svc := NewSearchService(st)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// The oldest story is the only one matching the term; with 51 stories it
	// falls outside the 50-newest window and is invisible to search.
	seedSearchStory(t, st, "old", "hidden gem village", nil, base)
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("s%02d", i)
		title := fmt.Sprintf("Trip number %d", i)
		seedSearchStory(t, st, id, title, nil, base.Add(time.Duration(i+1)*time.Minute))
	}

	results, err := svc.Search(ctx, "hidden gem")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results.Stories) != 0 {
		t.Errorf("Expected old story outside the recency window to be invisible, got %d", len(results.Stories))
	}
}

func seedSearchStory(t *testing.T, st store.Store, id, title string, tags []string, at time.Time) {
	t.Helper()
	err := st.Put(context.Background(), "stories", id, models.Story{
		UserID:    "owner",
		Title:     title,
		Tags:      tags,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("Failed to seed story %s: %v", id, err)
	}
}
