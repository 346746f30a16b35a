package catalog

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FilterScope applies the plan's predicate to a query on the recipes table
func (p Plan) FilterScope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Filter.TitleContains != "" {
			pattern := "%" + likeEscaper.Replace(p.Filter.TitleContains) + "%"
			db = db.Where(`recipes.search_title LIKE ? ESCAPE '\'`, pattern)
		}
		if p.Filter.Tag != "" {
			db = db.Where(tagPredicate(db.Dialector.Name()), p.Filter.Tag)
		}
		return db
	}
}

// OrderScope applies the plan's sort order
func (p Plan) OrderScope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, term := range p.Order {
			expr := orderExpr(term.Key)
			if term.Desc {
				expr += " DESC"
			} else {
				expr += " ASC"
			}
			db = db.Order(expr)
		}
		return db
	}
}

// PageScope applies offset and limit
func (p Plan) PageScope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}

// tagPredicate matches against the lowercased tag column
func tagPredicate(dialect string) string {
	if dialect == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.search_tags) AS t(tag) WHERE t.tag = ?)"
	}
	return "EXISTS (SELECT 1 FROM json_each(recipes.search_tags) WHERE json_each.value = ?)"
}

func orderExpr(key SortKey) string {
	switch key {
	case KeyLikes:
		return "recipes.likes"
	case KeyCommentCount:
		return "(SELECT COUNT(*) FROM recipe_comments WHERE recipe_comments.recipe_id = recipes.id)"
	case KeyID:
		return "recipes.id"
	default:
		return "recipes.created_at"
	}
}
