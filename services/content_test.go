package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

func newContentFixture(t *testing.T) (*ContentService, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	svc := NewContentService(st)
	seedUser(t, st, "u1", "Uma")
	return svc, st
}

func TestCreateStoryDenormalizesAuthorAndCounts(t *testing.T) {
	ctx := context.Background()
	svc, st := newContentFixture(t)

	story, err := svc.CreateStory(ctx, "u1", NewStory{
		Title:  "  Midnight sun  ",
		Images: []string{"https://img.example.com/1.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	if story.ID == "" {
		t.Errorf("Expected generated story id")
	}
	if story.Title != "Midnight sun" {
		t.Errorf("Expected trimmed title, got %q", story.Title)
	}
	if story.UserName != "Uma" {
		t.Errorf("Expected denormalized author name, got %q", story.UserName)
	}

	var user models.User
	if err := st.Get(ctx, "users", "u1", &user); err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	if user.Stories != 1 {
		t.Errorf("Expected stories counter 1, got %d", user.Stories)
	}
}

func TestDeleteStoryCascadesEngagement(t *testing.T) {
	ctx := context.Background()
	svc, st := newContentFixture(t)

	story, err := svc.CreateStory(ctx, "u1", NewStory{
		Title:  "Short lived",
		Images: []string{"https://img.example.com/1.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}

	err = st.Put(ctx, "comments", "c1", models.Comment{
		ContentType: models.ContentStory,
		ContentID:   story.ID,
		UserID:      "u1",
		Text:        "nice",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed comment: %v", err)
	}
	likeID := models.LikeID(models.ContentStory, story.ID, "u1")
	err = st.Put(ctx, "likes", likeID, models.Like{
		ContentType: models.ContentStory,
		ContentID:   story.ID,
		UserID:      "u1",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed like: %v", err)
	}

	if err := svc.DeleteStory(ctx, story.ID, "u1"); err != nil {
		t.Fatalf("DeleteStory failed: %v", err)
	}

	comments, _ := st.Count(ctx, "comments")
	likes, _ := st.Count(ctx, "likes")
	if comments != 0 || likes != 0 {
		t.Errorf("Expected cascade to remove engagement, got %d comments, %d likes", comments, likes)
	}
	var user models.User
	if err := st.Get(ctx, "users", "u1", &user); err != nil {
		t.Fatalf("Get user failed: %v", err)
	}
	if user.Stories != 0 {
		t.Errorf("Expected stories counter back at 0, got %d", user.Stories)
	}
}

func TestDeleteStoryNotOwner(t *testing.T) {
	ctx := context.Background()
	svc, st := newContentFixture(t)
	seedUser(t, st, "u2", "Vik")

	story, err := svc.CreateStory(ctx, "u1", NewStory{
		Title:  "Mine",
		Images: []string{"https://img.example.com/1.jpg"},
	})
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}

	if err := svc.DeleteStory(ctx, story.ID, "u2"); !errors.Is(err, ErrNotContentOwner) {
		t.Errorf("Expected ErrNotContentOwner, got %v", err)
	}
	if err := svc.DeleteStory(ctx, "ghost", "u1"); !errors.Is(err, ErrNotContentOwner) {
		t.Errorf("Expected ErrNotContentOwner for missing story, got %v", err)
	}
}

func TestCreateRouteRejectsUnknownDifficulty(t *testing.T) {
	svc, _ := newContentFixture(t)
	_, err := svc.CreateRoute(context.Background(), "u1", NewRoute{
		Title:      "Bad route",
		Stops:      []models.Stop{{Location: "Somewhere"}},
		Difficulty: "impossible",
	})
	if err == nil {
		t.Errorf("Expected error for unknown difficulty")
	}
}

func TestListStoriesNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	svc, st := newContentFixture(t)
	base := time.Date(2026, 7, 1, 7, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		err := st.Put(ctx, "stories", string(rune('a'+i)), models.Story{
			UserID:    "u1",
			Title:     "Trip",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Failed to seed story: %v", err)
		}
	}

	stories, err := svc.ListStories(ctx, 0)
	if err != nil {
		t.Fatalf("ListStories failed: %v", err)
	}
	if len(stories) != defaultFeedLimit {
		t.Fatalf("Expected default limit %d, got %d", defaultFeedLimit, len(stories))
	}
	if !stories[0].CreatedAt.After(stories[1].CreatedAt) {
		t.Errorf("Expected newest first")
	}
}

func TestSharePostIncrements(t *testing.T) {
	ctx := context.Background()
	svc, _ := newContentFixture(t)

	post, err := svc.CreatePost(ctx, "u1", NewPost{
		Title:   "Tips for Tokyo",
		Content: "Get the 72h metro pass.",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	for want := int64(1); want <= 3; want++ {
		shares, err := svc.SharePost(ctx, post.ID)
		if err != nil {
			t.Fatalf("SharePost failed: %v", err)
		}
		if shares != want {
			t.Errorf("Expected %d shares, got %d", want, shares)
		}
	}

	if _, err := svc.SharePost(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing post, got %v", err)
	}
}
