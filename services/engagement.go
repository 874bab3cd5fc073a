package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wanderhub/models"
	"wanderhub/store"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrInvalidContentType = errors.New("invalid content type")
	ErrEmptyComment       = errors.New("comment text is required")
	ErrNotCommentOwner    = errors.New("comment not found or not owned by user")
)

// CommentPublisher receives a signal whenever a content item's comment set
// changes so live subscribers can be pushed a fresh snapshot.
type CommentPublisher interface {
	PublishComments(contentType models.ContentType, contentID string)
}

// LikeState is the post-toggle state returned to the caller.
type LikeState struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// EngagementService toggles likes and creates comments, maintaining the
// denormalized counters on the parent documents. The existence check, the
// relation write, and the counter update are separate round trips; a crash
// between them can leave counter and relation set inconsistent, which is an
// accepted limitation.
type EngagementService struct {
	store         store.Store
	notifications *NotificationService
	trending      *TrendingService
	comments      CommentPublisher
}

func NewEngagementService(st store.Store, notifications *NotificationService, trending *TrendingService) *EngagementService {
	return &EngagementService{store: st, notifications: notifications, trending: trending}
}

// SetCommentPublisher wires the live comment stream. Optional.
func (s *EngagementService) SetCommentPublisher(p CommentPublisher) {
	s.comments = p
}

// ToggleLike flips the like relation between user and content item. A second
// toggle always returns to the original state. Liking fires a best-effort
// notification; unliking does not.
func (s *EngagementService) ToggleLike(ctx context.Context, contentType models.ContentType, contentID, userID string) (LikeState, error) {
	if !contentType.Valid() {
		return LikeState{}, ErrInvalidContentType
	}
	if contentID == "" || userID == "" {
		return LikeState{}, errors.New("content id and user id are required")
	}

	likeID := models.LikeID(contentType, contentID, userID)
	collection := contentType.Collection()

	var existing models.Like
	err := s.store.Get(ctx, "likes", likeID, &existing)
	switch {
	case errors.Is(err, store.ErrNotFound):
		like := models.Like{
			ID:          likeID,
			ContentType: contentType,
			ContentID:   contentID,
			UserID:      userID,
			CreatedAt:   time.Now(),
		}
		if err := s.store.Put(ctx, "likes", likeID, like); err != nil {
			return LikeState{}, fmt.Errorf("failed to create like: %w", err)
		}
		if err := s.store.Update(ctx, collection, contentID, store.Update{
			Inc: map[string]int64{contentType.LikeCountField(): 1},
		}); err != nil {
			return LikeState{}, fmt.Errorf("failed to increment like count: %w", err)
		}

		if s.trending != nil {
			s.trending.RecordLike(ctx, contentType, contentID)
		}
		s.notifications.Dispatch(NotificationParams{
			Type:        models.NotificationLike,
			ContentType: contentType,
			ContentID:   contentID,
			SenderID:    userID,
		})

		count, err := s.likeCount(ctx, contentType, contentID)
		if err != nil {
			return LikeState{}, err
		}
		return LikeState{Liked: true, Count: count}, nil

	case err == nil:
		if err := s.store.Delete(ctx, "likes", likeID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return LikeState{}, fmt.Errorf("failed to remove like: %w", err)
		}
		if err := s.store.Update(ctx, collection, contentID, store.Update{
			IncFloor: map[string]int64{contentType.LikeCountField(): -1},
		}); err != nil {
			return LikeState{}, fmt.Errorf("failed to decrement like count: %w", err)
		}
		if s.trending != nil {
			s.trending.RecordUnlike(ctx, contentType, contentID)
		}

		count, err := s.likeCount(ctx, contentType, contentID)
		if err != nil {
			return LikeState{}, err
		}
		return LikeState{Liked: false, Count: count}, nil

	default:
		return LikeState{}, fmt.Errorf("failed to check like: %w", err)
	}
}

// Liked reports whether the user has liked the content item.
func (s *EngagementService) Liked(ctx context.Context, contentType models.ContentType, contentID, userID string) (bool, error) {
	var like models.Like
	err := s.store.Get(ctx, "likes", models.LikeID(contentType, contentID, userID), &like)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// likeCount reads the denormalized counter back from the parent document.
func (s *EngagementService) likeCount(ctx context.Context, contentType models.ContentType, contentID string) (int64, error) {
	var doc bson.M
	if err := s.store.Get(ctx, contentType.Collection(), contentID, &doc); err != nil {
		return 0, fmt.Errorf("failed to read like count: %w", err)
	}
	return docInt64(doc, contentType.LikeCountField()), nil
}

// AddComment creates a comment with the author's name and photo denormalized
// at write time, bumps the parent's comment counter, and fires a best-effort
// notification.
func (s *EngagementService) AddComment(ctx context.Context, contentType models.ContentType, contentID, userID, text string) (models.Comment, error) {
	if !contentType.Valid() {
		return models.Comment{}, ErrInvalidContentType
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}

	var author models.User
	if err := s.store.Get(ctx, "users", userID, &author); err != nil {
		return models.Comment{}, fmt.Errorf("failed to fetch comment author: %w", err)
	}

	comment := models.Comment{
		ContentType: contentType,
		ContentID:   contentID,
		UserID:      userID,
		UserName:    author.Name,
		UserImage:   author.PhotoURL,
		Text:        text,
		CreatedAt:   time.Now(),
	}
	id, err := s.store.Create(ctx, "comments", comment)
	if err != nil {
		return models.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id

	if err := s.store.Update(ctx, contentType.Collection(), contentID, store.Update{
		Inc: map[string]int64{contentType.CommentCountField(): 1},
	}); err != nil {
		return models.Comment{}, fmt.Errorf("failed to increment comment count: %w", err)
	}

	s.notifications.Dispatch(NotificationParams{
		Type:        models.NotificationComment,
		ContentType: contentType,
		ContentID:   contentID,
		SenderID:    userID,
	})
	if s.comments != nil {
		s.comments.PublishComments(contentType, contentID)
	}

	return comment, nil
}

// ListComments returns a content item's comments, newest first. Callers that
// need a push-updated view subscribe to the comment stream instead.
func (s *EngagementService) ListComments(ctx context.Context, contentType models.ContentType, contentID string) ([]models.Comment, error) {
	if !contentType.Valid() {
		return nil, ErrInvalidContentType
	}
	var comments []models.Comment
	err := s.store.Query(ctx, "comments", store.Query{
		Filters: []store.Filter{
			{Field: "contentType", Value: string(contentType)},
			{Field: "contentId", Value: contentID},
		},
		OrderBy: "createdAt",
		Desc:    true,
	}, &comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a user's own comment and decrements the parent
// counter, clamped at zero.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, userID string) error {
	var comment models.Comment
	err := s.store.Get(ctx, "comments", commentID, &comment)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotCommentOwner
	}
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentOwner
	}

	if err := s.store.Delete(ctx, "comments", commentID); err != nil {
		return err
	}
	if err := s.store.Update(ctx, comment.ContentType.Collection(), comment.ContentID, store.Update{
		IncFloor: map[string]int64{comment.ContentType.CommentCountField(): -1},
	}); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if s.comments != nil {
		s.comments.PublishComments(comment.ContentType, comment.ContentID)
	}
	return nil
}

// docInt64 walks a dotted path through a decoded document and coerces the
// value to int64. Nested documents may decode as bson.M or bson.D depending
// on the driver.
func docInt64(doc bson.M, path string) int64 {
	cur := any(doc)
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case bson.M:
			var ok bool
			cur, ok = m[part]
			if !ok {
				return 0
			}
		case bson.D:
			found := false
			for _, e := range m {
				if e.Key == part {
					cur = e.Value
					found = true
					break
				}
			}
			if !found {
				return 0
			}
		default:
			return 0
		}
	}
	switch n := cur.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
