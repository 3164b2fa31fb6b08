package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string

	TagSlugs []string // OR across slugs
	AuthorID string

	Limit  int
	Offset int
}

// DefaultLimit is used when SearchParams.Limit is not positive.
const DefaultLimit = 20

// SearchResult holds matching recipe ids in score order.
type SearchResult struct {
	Query string      `json:"query"`
	Total uint64      `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// SearchHit is a single match.
type SearchHit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// IDs returns the hit ids in order.
func (r *SearchResult) IDs() []string {
	ids := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		ids[i] = h.ID
	}
	return ids
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, max(params.Offset, 0), false)
	// Ties on score fall back to newest first.
	req.SortBy([]string{"-_score", "-pub_date", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &SearchResult{
		Query: params.Query,
		Total: res.Total,
		Hits:  make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		out.Hits = append(out.Hits, SearchHit{ID: hit.ID, Score: hit.Score})
	}
	return out, nil
}

var textFields = []struct {
	name  string
	boost float64
}{
	{"name", 3.0},
	{"ingredients", 2.0},
	{"tags", 1.5},
	{"text", 1.0},
}

// buildSearchQuery combines the text query with filters using AND.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		var text []query.Query
		for _, f := range textFields {
			m := bleve.NewMatchQuery(q)
			m.SetField(f.name)
			m.SetBoost(f.boost)
			text = append(text, m)
		}

		lower := strings.ToLower(q)

		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)
		text = append(text, fuzzy)

		if utf8.RuneCountInString(q) >= 2 && !strings.ContainsAny(q, " \t") {
			prefix := bleve.NewPrefixQuery(lower)
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(text...))
	}

	if len(params.TagSlugs) > 0 {
		tagQueries := make([]query.Query, len(params.TagSlugs))
		for i, slug := range params.TagSlugs {
			tq := bleve.NewTermQuery(slug)
			tq.SetField("tag_slugs")
			tagQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(tagQueries...))
	}

	if params.AuthorID != "" {
		aq := bleve.NewTermQuery(params.AuthorID)
		aq.SetField("author_id")
		queries = append(queries, aq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
