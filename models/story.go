package models

import "time"

// Story is an image-led post. Likes and Comments are denormalized counters
// kept in step with the likes/comments collections by the engagement service.
type Story struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	UserName    string    `bson:"userName" json:"userName"`
	UserImage   string    `bson:"userImage,omitempty" json:"userImage,omitempty"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string  `bson:"images" json:"images"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	Likes       int64     `bson:"likes" json:"likes"`
	Comments    int64     `bson:"comments" json:"comments"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
