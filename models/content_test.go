package models

import "testing"

func TestContentTypeValid(t *testing.T) {
	for _, ct := range []ContentType{ContentStory, ContentPost, ContentRoute} {
		if !ct.Valid() {
			t.Errorf("Expected %q to be valid", ct)
		}
	}
	for _, ct := range []ContentType{"", "video", "stories"} {
		if ContentType(ct).Valid() {
			t.Errorf("Expected %q to be invalid", ct)
		}
	}
}

func TestContentTypeCollections(t *testing.T) {
	cases := map[ContentType]string{
		ContentStory: "stories",
		ContentPost:  "posts",
		ContentRoute: "routes",
	}
	for ct, want := range cases {
		if got := ct.Collection(); got != want {
			t.Errorf("Collection(%q) = %q, want %q", ct, got, want)
		}
	}
}

func TestCounterFieldLayouts(t *testing.T) {
	// Posts nest their counters under engagement; stories and routes don't.
	if got := ContentPost.LikeCountField(); got != "engagement.likes" {
		t.Errorf("Post like field = %q", got)
	}
	if got := ContentPost.CommentCountField(); got != "engagement.comments" {
		t.Errorf("Post comment field = %q", got)
	}
	if got := ContentStory.LikeCountField(); got != "likes" {
		t.Errorf("Story like field = %q", got)
	}
	if got := ContentRoute.CommentCountField(); got != "comments" {
		t.Errorf("Route comment field = %q", got)
	}
}

func TestCompositeIDs(t *testing.T) {
	if got := LikeID(ContentStory, "s1", "u1"); got != "story_s1_u1" {
		t.Errorf("LikeID = %q", got)
	}
	if got := SaveID("r1", "u1"); got != "r1_u1" {
		t.Errorf("SaveID = %q", got)
	}
	if got := FollowID("u1", "u2"); got != "u1_u2" {
		t.Errorf("FollowID = %q", got)
	}
}

func TestContentOwner(t *testing.T) {
	if got := (ContentOwner{UserID: "u1"}).Owner(); got != "u1" {
		t.Errorf("Owner = %q", got)
	}
	if got := (ContentOwner{CreatedBy: "u2"}).Owner(); got != "u2" {
		t.Errorf("Owner fallback = %q", got)
	}
}
