package models

import "time"

// Notification event types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
)

// Notification is written by the notification service when someone likes or
// comments on content they do not own, and marked read by the recipient.
// Notifications are never deleted.
type Notification struct {
	ID           string      `bson:"_id,omitempty" json:"id"`
	Type         string      `bson:"type" json:"type"`
	ContentType  ContentType `bson:"contentType" json:"contentType"`
	ContentID    string      `bson:"contentId" json:"contentId"`
	ContentTitle string      `bson:"contentTitle,omitempty" json:"contentTitle,omitempty"`
	SenderID     string      `bson:"senderId" json:"senderId"`
	SenderName   string      `bson:"senderName" json:"senderName"`
	SenderPhoto  string      `bson:"senderPhoto,omitempty" json:"senderPhoto,omitempty"`
	RecipientID  string      `bson:"recipientId" json:"recipientId"`
	Read         bool        `bson:"read" json:"read"`
	CreatedAt    time.Time   `bson:"createdAt" json:"createdAt"`
}
