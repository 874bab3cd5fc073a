package services

import (
	"context"
	"errors"
	"log"

	"wanderhub/models"
	"wanderhub/store"

	"github.com/redis/go-redis/v9"
)

// TrendingService ranks content by like activity in a Redis sorted set per
// collection. Redis is optional: without it, ranking degrades to a like-count
// sort on the store, and recording becomes a no-op.
type TrendingService struct {
	rdb   *redis.Client
	store store.Store
}

func NewTrendingService(rdb *redis.Client, st store.Store) *TrendingService {
	return &TrendingService{rdb: rdb, store: st}
}

func trendingKey(t models.ContentType) string {
	return "trending:" + t.Collection()
}

// RecordLike bumps the content item's trending score. Best-effort.
func (s *TrendingService) RecordLike(ctx context.Context, t models.ContentType, contentID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.ZIncrBy(ctx, trendingKey(t), 1, contentID).Err(); err != nil {
		log.Printf("failed to record trending like for %s %s: %v", t, contentID, err)
	}
}

// RecordUnlike lowers the content item's trending score. Best-effort.
func (s *TrendingService) RecordUnlike(ctx context.Context, t models.ContentType, contentID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.ZIncrBy(ctx, trendingKey(t), -1, contentID).Err(); err != nil {
		log.Printf("failed to record trending unlike for %s %s: %v", t, contentID, err)
	}
}

// TopRoutes returns the highest-scored routes. Items that have since been
// deleted are skipped.
func (s *TrendingService) TopRoutes(ctx context.Context, limit int64) ([]models.Route, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.rdb != nil {
		ids, err := s.rdb.ZRevRange(ctx, trendingKey(models.ContentRoute), 0, limit-1).Result()
		if err != nil {
			log.Printf("failed to read trending routes from redis: %v", err)
		} else if len(ids) > 0 {
			routes := make([]models.Route, 0, len(ids))
			for _, id := range ids {
				var route models.Route
				if err := s.store.Get(ctx, "routes", id, &route); err != nil {
					if !errors.Is(err, store.ErrNotFound) {
						return nil, err
					}
					continue
				}
				routes = append(routes, route)
			}
			return routes, nil
		}
	}

	// Fallback: like-count sort on the store.
	var routes []models.Route
	err := s.store.Query(ctx, "routes", store.Query{
		OrderBy: "likes",
		Desc:    true,
		Limit:   limit,
	}, &routes)
	if err != nil {
		return nil, err
	}
	return routes, nil
}
