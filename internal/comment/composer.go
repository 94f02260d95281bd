package comment

import (
	"context"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/consensuslabs/pavilion-comments/internal/identity"
	"github.com/google/uuid"
)

// ProfileDirectory resolves owner ids to public profiles in one call
type ProfileDirectory interface {
	PublicProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]identity.Profile, error)
}

// Composer builds the enriched, paginated read views
type Composer struct {
	store    *Store
	profiles ProfileDirectory
}

// NewComposer creates a new view composer
func NewComposer(store *Store, profiles ProfileDirectory) *Composer {
	return &Composer{store: store, profiles: profiles}
}

// TopLevelPage returns one page of a video's top-level comments
func (c *Composer) TopLevelPage(ctx context.Context, videoID uuid.UUID, opts ListOptions) (*EnrichedPage, error) {
	page, err := c.store.ListTopLevelByVideo(ctx, videoID, opts)
	if err != nil {
		return nil, err
	}
	return c.enrichPage(ctx, page)
}

// RepliesPage returns one page of a comment's replies, oldest first
func (c *Composer) RepliesPage(ctx context.Context, parent *Comment, opts ListOptions) (*EnrichedPage, error) {
	opts.SortField = SortByCreatedAt
	opts.SortOrder = SortAsc
	page, err := c.store.ListRepliesByParent(ctx, parent, opts)
	if err != nil {
		return nil, err
	}
	return c.enrichPage(ctx, page)
}

// AllPage returns one page across every comment and reply
func (c *Composer) AllPage(ctx context.Context, opts ListOptions) (*EnrichedPage, error) {
	page, err := c.store.ListAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c.enrichPage(ctx, page)
}

// EnrichOne joins a single comment with its owner's profile
func (c *Composer) EnrichOne(ctx context.Context, comment *Comment) (*EnrichedComment, error) {
	enriched, err := c.Enrich(ctx, []Comment{*comment})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// Enrich joins comments with their owners' profiles using a single directory
// lookup. A failed lookup or an unresolved owner fails the whole batch.
func (c *Composer) Enrich(ctx context.Context, comments []Comment) ([]EnrichedComment, error) {
	out := make([]EnrichedComment, 0, len(comments))
	if len(comments) == 0 {
		return out, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(comments))
	ids := make([]uuid.UUID, 0, len(comments))
	for _, cm := range comments {
		if _, ok := seen[cm.OwnerID]; ok {
			continue
		}
		seen[cm.OwnerID] = struct{}{}
		ids = append(ids, cm.OwnerID)
	}

	profiles, err := c.profiles.PublicProfiles(ctx, ids)
	if err != nil {
		return nil, apperrors.NewDependencyError("identity", apperrors.ErrMsgProfileLookup, err)
	}

	for _, cm := range comments {
		profile, ok := profiles[cm.OwnerID]
		if !ok {
			return nil, apperrors.NewDependencyError("identity", apperrors.ErrMsgProfileMissing, nil)
		}
		out = append(out, EnrichedComment{Comment: cm, Owner: profile})
	}
	return out, nil
}

func (c *Composer) enrichPage(ctx context.Context, page *Page) (*EnrichedPage, error) {
	comments, err := c.Enrich(ctx, page.Comments)
	if err != nil {
		return nil, err
	}
	return &EnrichedPage{
		Comments:    comments,
		TotalCount:  page.TotalCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
		HasNextPage: page.HasNextPage,
		HasPrevPage: page.HasPrevPage,
	}, nil
}
