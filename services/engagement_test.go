package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

func newEngagementFixture(t *testing.T) (*EngagementService, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	svc := NewEngagementService(st, NewNotificationService(st), nil)
	seedUser(t, st, "owner", "Olive")
	seedUser(t, st, "fan", "Fay")
	seedStory(t, st, "s1", "owner", "A trip")
	return svc, st
}

// waitForCount polls until the collection reaches the expected size, since
// notifications are written on a detached goroutine.
func waitForCount(t *testing.T, st store.Store, collection string, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err := st.Count(context.Background(), collection)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	n, _ := st.Count(context.Background(), collection)
	t.Fatalf("Expected %d docs in %s, got %d", want, collection, n)
}

func TestToggleLikeRoundtrip(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	state, err := svc.ToggleLike(ctx, models.ContentStory, "s1", "fan")
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !state.Liked || state.Count != 1 {
		t.Errorf("Expected liked with count 1, got %+v", state)
	}

	liked, err := svc.Liked(ctx, models.ContentStory, "s1", "fan")
	if err != nil || !liked {
		t.Errorf("Expected Liked true, got %v, %v", liked, err)
	}

	state, err = svc.ToggleLike(ctx, models.ContentStory, "s1", "fan")
	if err != nil {
		t.Fatalf("Second ToggleLike failed: %v", err)
	}
	if state.Liked || state.Count != 0 {
		t.Errorf("Expected unliked with count 0, got %+v", state)
	}

	var story models.Story
	if err := st.Get(ctx, "stories", "s1", &story); err != nil {
		t.Fatalf("Get story failed: %v", err)
	}
	if story.Likes != 0 {
		t.Errorf("Expected story likes back at 0, got %d", story.Likes)
	}
	likes, _ := st.Count(ctx, "likes")
	if likes != 0 {
		t.Errorf("Expected like relation removed, got %d", likes)
	}
}

func TestToggleLikeInvalidContentType(t *testing.T) {
	svc, _ := newEngagementFixture(t)
	_, err := svc.ToggleLike(context.Background(), "video", "s1", "fan")
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("Expected ErrInvalidContentType, got %v", err)
	}
}

func TestLikeFiresNotification(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	if _, err := svc.ToggleLike(ctx, models.ContentStory, "s1", "fan"); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	waitForCount(t, st, "notifications", 1)

	var notifications []models.Notification
	err := st.Query(ctx, "notifications", store.Query{}, &notifications)
	if err != nil || len(notifications) != 1 {
		t.Fatalf("Query notifications failed: %v (%d)", err, len(notifications))
	}
	n := notifications[0]
	if n.Type != models.NotificationLike || n.RecipientID != "owner" || n.SenderID != "fan" {
		t.Errorf("Wrong notification: %+v", n)
	}
}

func TestOwnLikeDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	if _, err := svc.ToggleLike(ctx, models.ContentStory, "s1", "owner"); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	// Give the async pipeline time to run before asserting nothing landed.
	time.Sleep(100 * time.Millisecond)
	count, _ := st.Count(ctx, "notifications")
	if count != 0 {
		t.Errorf("Expected no notification for own like, got %d", count)
	}
}

func TestPostLikeUsesNestedCounter(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)
	err := st.Put(ctx, "posts", "p1", models.Post{
		UserID:    "owner",
		Title:     "Where to stay in Lisbon?",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed post: %v", err)
	}

	state, err := svc.ToggleLike(ctx, models.ContentPost, "p1", "fan")
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if state.Count != 1 {
		t.Errorf("Expected count 1, got %d", state.Count)
	}

	var post models.Post
	if err := st.Get(ctx, "posts", "p1", &post); err != nil {
		t.Fatalf("Get post failed: %v", err)
	}
	if post.Engagement.Likes != 1 {
		t.Errorf("Expected engagement.likes 1, got %d", post.Engagement.Likes)
	}
}

func TestAddCommentBumpsCounterAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	comment, err := svc.AddComment(ctx, models.ContentStory, "s1", "fan", "  Looks amazing!  ")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.Text != "Looks amazing!" {
		t.Errorf("Expected trimmed text, got %q", comment.Text)
	}
	if comment.UserName != "Fay" {
		t.Errorf("Expected denormalized author name, got %q", comment.UserName)
	}
	if comment.ID == "" {
		t.Errorf("Expected generated comment id")
	}

	var story models.Story
	if err := st.Get(ctx, "stories", "s1", &story); err != nil {
		t.Fatalf("Get story failed: %v", err)
	}
	if story.Comments != 1 {
		t.Errorf("Expected comment counter 1, got %d", story.Comments)
	}
	waitForCount(t, st, "notifications", 1)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	svc, _ := newEngagementFixture(t)
	_, err := svc.AddComment(context.Background(), models.ContentStory, "s1", "fan", "   ")
	if !errors.Is(err, ErrEmptyComment) {
		t.Errorf("Expected ErrEmptyComment, got %v", err)
	}
}

func TestListCommentsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"first", "second", "third"} {
		err := st.Put(ctx, "comments", text, models.Comment{
			ContentType: models.ContentStory,
			ContentID:   "s1",
			UserID:      "fan",
			Text:        text,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Failed to seed comment: %v", err)
		}
	}

	comments, err := svc.ListComments(ctx, models.ContentStory, "s1")
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(comments))
	}
	if comments[0].Text != "third" || comments[2].Text != "first" {
		t.Errorf("Wrong order: %s .. %s", comments[0].Text, comments[2].Text)
	}
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	comment, err := svc.AddComment(ctx, models.ContentStory, "s1", "fan", "hello")
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if err := svc.DeleteComment(ctx, comment.ID, "owner"); !errors.Is(err, ErrNotCommentOwner) {
		t.Errorf("Expected ErrNotCommentOwner for non-author, got %v", err)
	}

	if err := svc.DeleteComment(ctx, comment.ID, "fan"); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	var story models.Story
	if err := st.Get(ctx, "stories", "s1", &story); err != nil {
		t.Fatalf("Get story failed: %v", err)
	}
	if story.Comments != 0 {
		t.Errorf("Expected comment counter back at 0, got %d", story.Comments)
	}

	if err := svc.DeleteComment(ctx, comment.ID, "fan"); !errors.Is(err, ErrNotCommentOwner) {
		t.Errorf("Expected ErrNotCommentOwner for deleted comment, got %v", err)
	}
}

func TestLikeCounterNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	// A stray relation with the counter already at zero; the unlike toggle
	// must clamp instead of going negative.
	likeID := models.LikeID(models.ContentStory, "s1", "fan")
	err := st.Put(ctx, "likes", likeID, models.Like{
		ContentType: models.ContentStory,
		ContentID:   "s1",
		UserID:      "fan",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed like: %v", err)
	}

	state, err := svc.ToggleLike(ctx, models.ContentStory, "s1", "fan")
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if state.Liked || state.Count != 0 {
		t.Errorf("Expected unliked with count clamped at 0, got %+v", state)
	}
}

func TestCommentCounterNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc, st := newEngagementFixture(t)

	// Counter already at zero; deleting a stray comment must not push it below.
	err := st.Put(ctx, "comments", "stray", models.Comment{
		ContentType: models.ContentStory,
		ContentID:   "s1",
		UserID:      "fan",
		Text:        "stray",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to seed comment: %v", err)
	}

	if err := svc.DeleteComment(ctx, "stray", "fan"); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	var story models.Story
	if err := st.Get(ctx, "stories", "s1", &story); err != nil {
		t.Fatalf("Get story failed: %v", err)
	}
	if story.Comments != 0 {
		t.Errorf("Expected counter clamped at 0, got %d", story.Comments)
	}
}
