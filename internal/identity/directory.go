package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/cache"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/google/uuid"
)

const profileKeyPrefix = "identity:profile:"

// DirectoryConfig configures the cache tiers of a Directory
type DirectoryConfig struct {
	LocalSize int
	LocalTTL  time.Duration
	RemoteTTL time.Duration
}

// Directory resolves public profiles through an in-process LRU, then Redis,
// then the repository. Cache failures degrade to the next tier; only a
// repository failure is returned to the caller.
type Directory struct {
	repo      Repository
	local     *cache.Local[uuid.UUID, Profile]
	remote    cache.Service
	remoteTTL time.Duration
	logger    logger.Logger
}

// NewDirectory creates a Directory. remote may be nil.
func NewDirectory(repo Repository, remote cache.Service, cfg DirectoryConfig, log logger.Logger) (*Directory, error) {
	if cfg.LocalSize <= 0 {
		cfg.LocalSize = 10000
	}
	if cfg.LocalTTL <= 0 {
		cfg.LocalTTL = time.Minute
	}
	local, err := cache.NewLocal[uuid.UUID, Profile](cfg.LocalSize, cfg.LocalTTL)
	if err != nil {
		return nil, err
	}
	return &Directory{
		repo:      repo,
		local:     local,
		remote:    remote,
		remoteTTL: cfg.RemoteTTL,
		logger:    log.WithFields(map[string]interface{}{"component": "identity"}),
	}, nil
}

// PublicProfiles returns the profiles found for ids. Unknown users are
// absent from the map.
func (d *Directory) PublicProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Profile, error) {
	found := make(map[uuid.UUID]Profile, len(ids))
	missing := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if p, ok := d.local.Get(id); ok {
			found[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return found, nil
	}

	missing = d.fromRemote(ctx, missing, found)
	if len(missing) == 0 {
		return found, nil
	}

	profiles, err := d.repo.FindProfiles(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		found[p.ID] = p
		d.local.Set(p.ID, p)
		d.storeRemote(ctx, p)
	}
	return found, nil
}

// Invalidate drops a profile from both cache tiers
func (d *Directory) Invalidate(ctx context.Context, id uuid.UUID) {
	d.local.Delete(id)
	if d.remote != nil {
		if err := d.remote.Delete(ctx, profileKeyPrefix+id.String()); err != nil {
			d.logger.LogWarn("Failed to invalidate cached profile", map[string]interface{}{
				"userID": id.String(),
				"error":  err.Error(),
			})
		}
	}
}

// fromRemote fills found from Redis and returns the ids still missing
func (d *Directory) fromRemote(ctx context.Context, ids []uuid.UUID, found map[uuid.UUID]Profile) []uuid.UUID {
	if d.remote == nil {
		return ids
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKeyPrefix + id.String()
	}
	values, err := d.remote.GetMany(ctx, keys)
	if err != nil {
		d.logger.LogWarn("Profile cache unavailable", map[string]interface{}{"error": err.Error()})
		return ids
	}

	var still []uuid.UUID
	for i, id := range ids {
		raw, ok := values[keys[i]]
		if !ok {
			still = append(still, id)
			continue
		}
		var p Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil || p.ID != id {
			still = append(still, id)
			continue
		}
		found[id] = p
		d.local.Set(id, p)
	}
	return still
}

func (d *Directory) storeRemote(ctx context.Context, p Profile) {
	if d.remote == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := d.remote.Set(ctx, profileKeyPrefix+p.ID.String(), data, d.remoteTTL); err != nil {
		d.logger.LogWarn("Failed to cache profile", map[string]interface{}{
			"userID": p.ID.String(),
			"error":  err.Error(),
		})
	}
}
