package oracle

import (
	"context"
	"strings"

	"github.com/katalvlaran/wikiwalk/core"
)

// Namespaces used by the search.
const (
	// NamespaceArticle is the main article namespace.
	NamespaceArticle = 0

	// NamespaceCategory is the category namespace.
	NamespaceCategory = 14
)

// DefaultCategoryDenylist lists substrings of low-information maintenance
// categories. Matching is case-insensitive.
var DefaultCategoryDenylist = []string{
	"articles",
	"pages",
	"redirects",
	"clean up",
	"identifiers",
	"wiki",
	"all",
	"description",
	"video",
}

// Link is one neighbor returned by Expand.
type Link struct {
	Title     string
	Namespace int
}

// Oracle answers the three questions a walk asks about the live link graph.
//
// Implementations never return errors: a failed existence check reads as
// "does not exist", a failed expansion as "no neighbors" and a failed
// category lookup as "no categories". Retrying, if any, is up to the
// implementation.
type Oracle interface {
	// Exists reports whether title names a real article.
	Exists(ctx context.Context, title string) bool

	// Expand returns the titles title links to (Forward) or that link to
	// title (Backward). At most limit entries are useful to the caller.
	Expand(ctx context.Context, title string, dir core.Direction, limit int) []Link

	// Categories returns up to limit de-spammed category titles of title.
	Categories(ctx context.Context, title string, limit int) []string
}

// FilterCategories keeps category-namespace titles that match none of the
// denylist substrings, stopping after limit entries (limit <= 0: no cap).
func FilterCategories(links []Link, denylist []string, limit int) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		if limit > 0 && len(out) >= limit {
			break
		}
		if l.Namespace != NamespaceCategory || denied(l.Title, denylist) {
			continue
		}
		out = append(out, l.Title)
	}

	return out
}

func denied(title string, denylist []string) bool {
	lower := strings.ToLower(strings.TrimPrefix(title, "Category:"))
	for _, sub := range denylist {
		if strings.Contains(lower, sub) {
			return true
		}
	}

	return false
}
