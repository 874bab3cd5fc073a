package services

import (
	"context"
	"encoding/json"
	"strings"

	"wanderhub/models"
	"wanderhub/store"

	"golang.org/x/sync/errgroup"
)

const (
	// minQueryLength gates very short terms before any store call.
	minQueryLength = 2
	// searchFetchLimit bounds each collection fetch. Search is not
	// exhaustive: only the newest documents per collection are considered,
	// so old matching content can be invisible. Accepted at this corpus size.
	searchFetchLimit = 50
)

// SearchResults holds the three filtered result sets, each ordered newest
// first.
type SearchResults struct {
	Stories []models.Story `json:"stories"`
	Routes  []models.Route `json:"routes"`
	Posts   []models.Post  `json:"posts"`
}

// SearchService performs free-text search by fetching bounded recent slices
// of the three content collections in parallel and substring-matching them
// client-side. The store's own text-search capability is not used.
type SearchService struct {
	store store.Store
}

func NewSearchService(st store.Store) *SearchService {
	return &SearchService{store: st}
}

// Search runs the three collection fetches concurrently; if any fetch fails
// the whole call fails and no partial results surface.
func (s *SearchService) Search(ctx context.Context, term string) (SearchResults, error) {
	empty := SearchResults{
		Stories: []models.Story{},
		Routes:  []models.Route{},
		Posts:   []models.Post{},
	}
	if len(term) < minQueryLength {
		return empty, nil
	}

	recent := store.Query{
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   searchFetchLimit,
	}

	var (
		stories []models.Story
		routes  []models.Route
		posts   []models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.store.Query(gctx, "stories", recent, &stories) })
	g.Go(func() error { return s.store.Query(gctx, "routes", recent, &routes) })
	g.Go(func() error { return s.store.Query(gctx, "posts", recent, &posts) })
	if err := g.Wait(); err != nil {
		return SearchResults{}, err
	}

	needle := strings.ToLower(term)
	results := empty
	for _, story := range stories {
		if matchStory(story, needle) {
			results.Stories = append(results.Stories, story)
		}
	}
	for _, route := range routes {
		if matchRoute(route, needle) {
			results.Routes = append(results.Routes, route)
		}
	}
	for _, post := range posts {
		if matchPost(post, needle) {
			results.Posts = append(results.Posts, post)
		}
	}
	return results, nil
}

// broadMatch serializes the whole document and tests substring containment,
// so any textual field matches.
func broadMatch(doc any, needle string) bool {
	raw, err := json.Marshal(doc)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(raw)), needle)
}

func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func tagsMatch(tags []string, needle string) bool {
	for _, tag := range tags {
		if containsFold(tag, needle) {
			return true
		}
	}
	return false
}

func matchStory(story models.Story, needle string) bool {
	if broadMatch(story, needle) {
		return true
	}
	return containsFold(story.Title, needle) ||
		containsFold(story.Description, needle) ||
		containsFold(story.Location, needle) ||
		tagsMatch(story.Tags, needle)
}

func matchRoute(route models.Route, needle string) bool {
	if broadMatch(route, needle) {
		return true
	}
	for _, stop := range route.Stops {
		if containsFold(stop.Location, needle) {
			return true
		}
	}
	return containsFold(route.Title, needle) ||
		containsFold(route.Description, needle) ||
		tagsMatch(route.Tags, needle)
}

func matchPost(post models.Post, needle string) bool {
	if broadMatch(post, needle) {
		return true
	}
	return containsFold(post.Title, needle) ||
		containsFold(post.Content, needle) ||
		tagsMatch(post.Tags, needle)
}
