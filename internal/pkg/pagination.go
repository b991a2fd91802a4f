package pkg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Query parameter names of the listing page.
const (
	SearchParam = "q"
	PageParam   = "page"
)

// ListingQuery is the search term and requested page of a listing request.
type ListingQuery struct {
	Term string
	Page int
}

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// likeEscaper escapes the LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ParseListingQuery reads the search term and page from the query string.
// A missing or malformed page yields 1; range checks are left to the caller.
func ParseListingQuery(c *gin.Context) ListingQuery {
	page, err := strconv.Atoi(c.Query(PageParam))
	if err != nil {
		page = 1
	}
	return ListingQuery{
		Term: c.Query(SearchParam),
		Page: page,
	}
}

// EscapeLike escapes value for use inside a LIKE pattern with ESCAPE '\'.
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}

// ContainsFold returns a GORM scope matching rows whose column contains value,
// ignoring case. An empty value matches every row. Columns that are not plain
// identifiers leave the query unchanged.
//
// Case folding happens in the database. SQLite's LOWER only folds ASCII;
// callers on SQLite that need Unicode matching filter with FoldContains.
func ContainsFold(column, value string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" || !validFieldName.MatchString(column) {
			return db
		}
		pattern := "%" + EscapeLike(strings.ToLower(value)) + "%"
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}
}

// FoldContains reports whether substr is within s under Unicode case folding.
func FoldContains(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(cases.Fold().String(s), cases.Fold().String(substr))
}

// OrderByID returns a GORM scope ordering rows by ascending primary key.
func OrderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}
