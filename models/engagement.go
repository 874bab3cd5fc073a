package models

import "time"

// Like is the relation document behind a like toggle. Its id is the
// composite LikeID, so existence checks are point reads.
type Like struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	ContentType ContentType `bson:"contentType" json:"contentType"`
	ContentID   string      `bson:"contentId" json:"contentId"`
	UserID      string      `bson:"userId" json:"userId"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
}

// RouteSnapshot is the subset of route display fields denormalized into a
// Save so the saved-routes view never re-fetches the original route. If the
// route is edited later the snapshot is not refreshed.
type RouteSnapshot struct {
	ID         string `bson:"id" json:"id"`
	Title      string `bson:"title" json:"title"`
	MainImage  string `bson:"mainImage,omitempty" json:"mainImage,omitempty"`
	Duration   string `bson:"duration,omitempty" json:"duration,omitempty"`
	Difficulty string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Cost       string `bson:"cost,omitempty" json:"cost,omitempty"`
}

// Save is a route bookmark, keyed by SaveID.
type Save struct {
	ID        string        `bson:"_id,omitempty" json:"id"`
	UserID    string        `bson:"userId" json:"userId"`
	RouteID   string        `bson:"routeId" json:"routeId"`
	Route     RouteSnapshot `bson:"route" json:"route"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// Comment on a content item. Author name and photo are denormalized at write
// time; later profile edits do not retroactively update past comments.
type Comment struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	ContentType ContentType `bson:"contentType" json:"contentType"`
	ContentID   string      `bson:"contentId" json:"contentId"`
	UserID      string      `bson:"userId" json:"userId"`
	UserName    string      `bson:"userName" json:"userName"`
	UserImage   string      `bson:"userImage,omitempty" json:"userImage,omitempty"`
	Text        string      `bson:"text" json:"text"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
}
