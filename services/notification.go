package services

import (
	"context"
	"errors"
	"log"
	"time"

	"wanderhub/models"
	"wanderhub/store"
)

// inboxLimit caps the live inbox at the most recent notifications; the unread
// badge is derived from the snapshot, not kept as a separate counter.
const inboxLimit = 20

// InboxNotifier receives a signal whenever a user's inbox changes so live
// subscribers can be pushed a fresh snapshot.
type InboxNotifier interface {
	NotifyUser(userID string)
}

// NotificationParams describes a like/comment event to notify about. When
// RecipientID is empty it is resolved from the content document's owner.
type NotificationParams struct {
	Type        string
	ContentType models.ContentType
	ContentID   string
	SenderID    string
	RecipientID string
}

// NotificationService writes and reads notification documents. Creation is
// best-effort by contract: no failure in the pipeline may propagate to the
// action (like, comment) that triggered it.
type NotificationService struct {
	store  store.Store
	events InboxNotifier
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st}
}

// SetInboxNotifier wires the live inbox stream. Optional.
func (s *NotificationService) SetInboxNotifier(n InboxNotifier) {
	s.events = n
}

// Dispatch creates the notification on a detached goroutine with its own
// failure boundary. The caller's action never waits on or fails with it.
func (s *NotificationService) Dispatch(params NotificationParams) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("notification dispatch panic: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Create(ctx, params)
	}()
}

// Create resolves the recipient and writes the notification document.
// Every failure mode aborts silently: a missing content document, a missing
// sender, a self-notification, or a store error all log and return nil.
func (s *NotificationService) Create(ctx context.Context, params NotificationParams) error {
	recipientID := params.RecipientID
	contentTitle := ""

	if recipientID == "" {
		var content models.ContentOwner
		err := s.store.Get(ctx, params.ContentType.Collection(), params.ContentID, &content)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("failed to fetch %s %s for notification: %v", params.ContentType, params.ContentID, err)
			}
			return nil
		}
		recipientID = content.Owner()
		contentTitle = content.Title
		if contentTitle == "" {
			contentTitle = string(params.ContentType) + " update"
		}
	}

	// Never notify users about their own actions.
	if recipientID == "" || recipientID == params.SenderID {
		return nil
	}

	var sender models.User
	if err := s.store.Get(ctx, "users", params.SenderID, &sender); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("failed to fetch sender %s for notification: %v", params.SenderID, err)
		}
		return nil
	}

	// A like can be toggled off and on indefinitely; suppress the repeats.
	// Comments are distinct events, so they are never deduplicated.
	if params.Type == models.NotificationLike {
		exists, err := s.exists(ctx, params, recipientID)
		if err != nil {
			log.Printf("failed to check for existing notification: %v", err)
			return nil
		}
		if exists {
			return nil
		}
	}

	senderName := sender.Name
	if senderName == "" {
		senderName = "A user"
	}

	notification := models.Notification{
		Type:         params.Type,
		ContentType:  params.ContentType,
		ContentID:    params.ContentID,
		ContentTitle: contentTitle,
		SenderID:     params.SenderID,
		SenderName:   senderName,
		SenderPhoto:  sender.PhotoURL,
		RecipientID:  recipientID,
		Read:         false,
		CreatedAt:    time.Now(),
	}

	if _, err := s.store.Create(ctx, "notifications", notification); err != nil {
		log.Printf("failed to create notification: %v", err)
		return nil
	}

	if s.events != nil {
		s.events.NotifyUser(recipientID)
	}
	return nil
}

// exists checks for a notification with the identical
// (type, contentType, contentId, senderId, recipientId) tuple.
func (s *NotificationService) exists(ctx context.Context, params NotificationParams, recipientID string) (bool, error) {
	n, err := s.store.Count(ctx, "notifications",
		store.Filter{Field: "type", Value: params.Type},
		store.Filter{Field: "contentType", Value: string(params.ContentType)},
		store.Filter{Field: "contentId", Value: params.ContentID},
		store.Filter{Field: "senderId", Value: params.SenderID},
		store.Filter{Field: "recipientId", Value: recipientID},
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Inbox returns the recipient's most recent notifications, newest first.
func (s *NotificationService) Inbox(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.store.Query(ctx, "notifications", store.Query{
		Filters: []store.Filter{{Field: "recipientId", Value: userID}},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   inboxLimit,
	}, &notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount counts the recipient's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.store.Count(ctx, "notifications",
		store.Filter{Field: "recipientId", Value: userID},
		store.Filter{Field: "read", Value: false},
	)
}

// MarkRead marks a single notification as read. Only the recipient may mark
// it; anyone else sees ErrNotFound, same as a missing id.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	var n models.Notification
	if err := s.store.Get(ctx, "notifications", notificationID, &n); err != nil {
		return err
	}
	if n.RecipientID != userID {
		return store.ErrNotFound
	}

	err := s.store.Update(ctx, "notifications", notificationID, store.Update{
		Set: map[string]any{"read": true},
	})
	if err != nil {
		return err
	}
	if s.events != nil {
		s.events.NotifyUser(userID)
	}
	return nil
}

// MarkAllRead marks every unread notification for the recipient as read in a
// single filtered update.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.store.UpdateMany(ctx, "notifications",
		[]store.Filter{
			{Field: "recipientId", Value: userID},
			{Field: "read", Value: false},
		},
		store.Update{Set: map[string]any{"read": true}},
	)
	if err != nil {
		return err
	}
	if s.events != nil {
		s.events.NotifyUser(userID)
	}
	return nil
}
