package comment

import (
	"math"
	"strconv"
	"strings"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// ParseListOptions turns raw query values into ListOptions. Values that do
// not parse fall back to defaults, a zero pageSize means the default and
// negative values clamp to 1. Unknown sort fields sort by creation time;
// anything but "asc" sorts descending. Page is capped so the offset stays
// within an int32.
func ParseListOptions(page, pageSize, sortField, sortOrder string, cfg Config) ListOptions {
	cfg = cfg.withDefaults()

	opts := ListOptions{
		Page:      defaultPage,
		PageSize:  cfg.DefaultPageSize,
		SortField: SortByCreatedAt,
		SortOrder: SortDesc,
	}

	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil {
		opts.Page = n
		if n < 1 {
			opts.Page = 1
		}
	}

	if n, err := strconv.Atoi(strings.TrimSpace(pageSize)); err == nil && n != 0 {
		opts.PageSize = n
		if n < 1 {
			opts.PageSize = 1
		}
	}
	if opts.PageSize > cfg.MaxPageSize {
		opts.PageSize = cfg.MaxPageSize
	}

	switch strings.TrimSpace(sortField) {
	case "updatedAt", "updated_at":
		opts.SortField = SortByUpdatedAt
	}

	if last := maxPageFor(opts.PageSize); opts.Page > last {
		opts.Page = last
	}

	if strings.EqualFold(strings.TrimSpace(sortOrder), string(SortAsc)) {
		opts.SortOrder = SortAsc
	}

	return opts
}

// maxPageFor is the last page whose offset fits in an int32
func maxPageFor(pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	return math.MaxInt32/pageSize + 1
}
