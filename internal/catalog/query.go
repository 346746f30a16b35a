// Package catalog turns catalog listing parameters into a storage query
// with a deterministic order.
package catalog

import (
	"strconv"
	"strings"
)

// SortMode selects the catalog ordering
type SortMode string

const (
	SortNewest        SortMode = "newest"
	SortOldest        SortMode = "oldest"
	SortMostLiked     SortMode = "most_liked"
	SortMostCommented SortMode = "most_commented"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// PageQuery is one catalog listing request
type PageQuery struct {
	Search string
	Tag    string
	Sort   SortMode
	Page   int
	Limit  int
}

// ParsePageQuery reads raw request parameters. Unparsable numbers fall
// back to defaults.
func ParsePageQuery(search, tag, sort, page, limit string) PageQuery {
	q := PageQuery{
		Search: search,
		Tag:    tag,
		Sort:   SortMode(sort),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil {
		q.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil {
		q.Limit = n
	}
	return q.Normalize()
}

// Normalize returns q with defaults applied and paging clamped
func (q PageQuery) Normalize() PageQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.Tag = strings.TrimSpace(q.Tag)

	switch q.Sort {
	case SortNewest, SortOldest, SortMostLiked, SortMostCommented:
	default:
		q.Sort = SortNewest
	}

	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// SortKey names a sortable attribute independent of storage dialect
type SortKey int

const (
	KeyCreatedAt SortKey = iota
	KeyLikes
	KeyCommentCount
	KeyID
)

// OrderTerm is one component of a sort order
type OrderTerm struct {
	Key  SortKey
	Desc bool
}

// Filter is the storage predicate. Empty fields do not constrain.
type Filter struct {
	// TitleContains is a lowercased substring matched against the title
	TitleContains string
	// Tag is a lowercased value matched exactly against any tag
	Tag string
}

// Plan is a fully resolved catalog query
type Plan struct {
	Filter Filter
	Order  []OrderTerm
	Page   int
	Limit  int
	Offset int
}

// Build resolves a page query into a plan. Every order ends with the
// identifier so equal sort values still page deterministically.
func Build(q PageQuery) Plan {
	q = q.Normalize()

	plan := Plan{
		Filter: Filter{
			TitleContains: strings.ToLower(q.Search),
			Tag:           strings.ToLower(q.Tag),
		},
		Page:   q.Page,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	}

	switch q.Sort {
	case SortOldest:
		plan.Order = []OrderTerm{{Key: KeyCreatedAt}, {Key: KeyID}}
	case SortMostLiked:
		plan.Order = []OrderTerm{{Key: KeyLikes, Desc: true}, {Key: KeyID, Desc: true}}
	case SortMostCommented:
		plan.Order = []OrderTerm{{Key: KeyCommentCount, Desc: true}, {Key: KeyID, Desc: true}}
	default:
		plan.Order = []OrderTerm{{Key: KeyCreatedAt, Desc: true}, {Key: KeyID, Desc: true}}
	}
	return plan
}

// PageCount is the number of pages needed to show total items
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
