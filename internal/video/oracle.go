package video

import (
	"context"
	"fmt"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Oracle answers whether a video exists
type Oracle interface {
	Exists(ctx context.Context, videoID uuid.UUID) (bool, error)
}

// GormOracle looks videos up in the postgres catalogue
type GormOracle struct {
	db *gorm.DB
}

// NewGormOracle creates a new GormOracle
func NewGormOracle(db *gorm.DB) *GormOracle {
	return &GormOracle{db: db}
}

// Exists reports whether a live video row exists
func (o *GormOracle) Exists(ctx context.Context, videoID uuid.UUID) (bool, error) {
	var count int64
	if err := o.db.WithContext(ctx).Model(&Video{}).Where("id = ?", videoID).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check video %s: %w", videoID, err)
	}
	return count > 0, nil
}

// CachedOracle remembers videos known to exist for a short TTL. Negative
// answers are never cached so a freshly published video is seen at once.
type CachedOracle struct {
	next  Oracle
	known *cache.Local[uuid.UUID, struct{}]
}

// NewCachedOracle wraps next with a positive-result cache
func NewCachedOracle(next Oracle, size int, ttl time.Duration) (*CachedOracle, error) {
	known, err := cache.NewLocal[uuid.UUID, struct{}](size, ttl)
	if err != nil {
		return nil, err
	}
	return &CachedOracle{next: next, known: known}, nil
}

// Exists implements Oracle
func (o *CachedOracle) Exists(ctx context.Context, videoID uuid.UUID) (bool, error) {
	if _, ok := o.known.Get(videoID); ok {
		return true, nil
	}
	exists, err := o.next.Exists(ctx, videoID)
	if err != nil {
		return false, err
	}
	if exists {
		o.known.Set(videoID, struct{}{})
	}
	return exists, nil
}
