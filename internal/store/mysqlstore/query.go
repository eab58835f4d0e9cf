package mysqlstore

import (
	"strings"

	"github.com/01moynul/cartify-golang/internal/models"
)

// likeEscape is the ESCAPE character used in catalog LIKE patterns.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// buildItemWhere turns a catalog filter into a WHERE clause and its args.
// The clause is empty when no filter applies.
func buildItemWhere(f models.ItemFilter) (string, []any) {
	var where strings.Builder
	var args []any

	add := func(cond string, vals ...any) {
		if where.Len() == 0 {
			where.WriteString(" WHERE ")
		} else {
			where.WriteString(" AND ")
		}
		where.WriteString(cond)
		args = append(args, vals...)
	}

	if f.Search != "" {
		pattern := "%" + likeReplacer.Replace(strings.ToLower(f.Search)) + "%"
		add("(LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(description) LIKE ? ESCAPE '"+likeEscape+"')", pattern, pattern)
	}
	if f.Category != "" {
		add("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.MinPrice != nil {
		add("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= ?", *f.MaxPrice)
	}

	return where.String(), args
}
