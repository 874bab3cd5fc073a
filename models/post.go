package models

import "time"

// Engagement holds the nested counters on a community post. Posts keep their
// counters in this sub-object while stories and routes keep theirs at top
// level; the content adapter translates between the two layouts.
type Engagement struct {
	Likes    int64 `bson:"likes" json:"likes"`
	Comments int64 `bson:"comments" json:"comments"`
	Shares   int64 `bson:"shares" json:"shares"`
}

// Post is a community discussion thread.
type Post struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	UserID     string     `bson:"userId" json:"userId"`
	UserName   string     `bson:"userName" json:"userName"`
	UserImage  string     `bson:"userImage,omitempty" json:"userImage,omitempty"`
	Title      string     `bson:"title" json:"title"`
	Content    string     `bson:"content" json:"content"`
	ImageURL   string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Location   string     `bson:"location,omitempty" json:"location,omitempty"`
	Tags       []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	Engagement Engagement `bson:"engagement" json:"engagement"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
}
