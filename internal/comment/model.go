package comment

import (
	"bytes"
	"math"
	"sort"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/identity"
	"github.com/google/uuid"
)

// Comment represents a comment on a video, or a reply to a top-level comment
// when ParentID is set. A reply's VideoID is never persisted; it is filled in
// from the parent whenever the reply is read.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	Content   string     `json:"content"`
	VideoID   uuid.UUID  `json:"videoId"`
	OwnerID   uuid.UUID  `json:"ownerId"`
	ParentID  *uuid.UUID `json:"parentId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsReply reports whether the comment is a reply
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// EnrichedComment is a comment joined with its owner's public profile
type EnrichedComment struct {
	Comment
	Owner identity.Profile `json:"owner"`
}

// Page is one page of comments in store order
type Page struct {
	Comments    []Comment `json:"comments"`
	TotalCount  int64     `json:"totalCount"`
	CurrentPage int       `json:"currentPage"`
	PageSize    int       `json:"pageSize"`
	TotalPages  int       `json:"totalPages"`
	HasNextPage bool      `json:"hasNextPage"`
	HasPrevPage bool      `json:"hasPrevPage"`
}

// EnrichedPage is the read view returned to clients
type EnrichedPage struct {
	Comments    []EnrichedComment `json:"comments"`
	TotalCount  int64             `json:"totalCount"`
	CurrentPage int               `json:"currentPage"`
	PageSize    int               `json:"pageSize"`
	TotalPages  int               `json:"totalPages"`
	HasNextPage bool              `json:"hasNextPage"`
	HasPrevPage bool              `json:"hasPrevPage"`
}

// SortField names the timestamp a listing is ordered by
type SortField string

// SortOrder is asc or desc
type SortOrder string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"

	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions carries normalized paging and ordering for a listing.
// Page is 1-based.
type ListOptions struct {
	Page      int
	PageSize  int
	SortField SortField
	SortOrder SortOrder
}

// Offset returns the number of records preceding the requested page. It
// saturates at math.MaxInt32 rather than overflowing.
func (o ListOptions) Offset() int {
	if o.Page <= 1 || o.PageSize <= 0 {
		return 0
	}
	if o.Page > maxPageFor(o.PageSize) {
		return math.MaxInt32
	}
	return (o.Page - 1) * o.PageSize
}

func newPage(comments []Comment, total int64, opts ListOptions) *Page {
	if comments == nil {
		comments = []Comment{}
	}
	totalPages := int((total + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	return &Page{
		Comments:    comments,
		TotalCount:  total,
		CurrentPage: opts.Page,
		PageSize:    opts.PageSize,
		TotalPages:  totalPages,
		HasNextPage: opts.Page < totalPages,
		HasPrevPage: opts.Page > 1,
	}
}

// SortComments orders comments in place by the requested field and order,
// breaking ties by id in the same direction. Backends that cannot sort
// server-side use it so every backend pages identically.
func SortComments(comments []Comment, field SortField, order SortOrder) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		ta, tb := a.CreatedAt, b.CreatedAt
		if field == SortByUpdatedAt {
			ta, tb = a.UpdatedAt, b.UpdatedAt
		}
		var cmp int
		switch {
		case ta.Before(tb):
			cmp = -1
		case ta.After(tb):
			cmp = 1
		default:
			cmp = bytes.Compare(a.ID[:], b.ID[:])
		}
		if order == SortAsc {
			return cmp < 0
		}
		return cmp > 0
	})
}

// PageSlice returns the window of an already sorted slice selected by opts
func PageSlice(comments []Comment, opts ListOptions) []Comment {
	start := opts.Offset()
	if start < 0 || start >= len(comments) {
		return []Comment{}
	}
	end := start + opts.PageSize
	if end > len(comments) {
		end = len(comments)
	}
	out := make([]Comment, end-start)
	copy(out, comments[start:end])
	return out
}
