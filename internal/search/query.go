package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Sort orders accepted by SearchParams.SortBy.
const (
	SortRelevance = "relevance"
	SortTitle     = "title"
	SortRecent    = "recent"
	SortDuration  = "duration"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string    // User's search query
	Types []DocType // Document types to include (empty = all)

	// Filters
	LibraryID   string   // Restrict to one library
	Genres      []string // Genre slugs, OR across values
	Tags        []string // Tag slugs, OR across values
	LocalOnly   bool     // Only items or episodes backed by local files
	MinDuration int64    // Minimum duration in ms
	MaxDuration int64    // Maximum duration in ms
	MinYear     int      // Minimum publish year (books only)
	MaxYear     int      // Maximum publish year (books only)

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // SortRelevance, SortTitle, SortRecent, SortDuration
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool // Include type, genre and tag counts
	Highlight     bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		SortBy:        SortRelevance,
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitzero"`
}

// SearchHit represents a single search result. For episodes ItemID is the
// owning podcast and ShowName its title.
type SearchHit struct {
	ID         string            `json:"id"`
	Type       DocType           `json:"type"`
	ItemID     string            `json:"item_id"`
	LibraryID  string            `json:"library_id,omitempty"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	Subtitle   string            `json:"subtitle,omitempty"`
	Author     string            `json:"author,omitempty"`
	Narrator   string            `json:"narrator,omitempty"`
	SeriesName string            `json:"series_name,omitempty"`
	ShowName   string            `json:"show_name,omitempty"`
	Local      bool              `json:"local"`
	Duration   int64             `json:"duration,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types  []FacetCount `json:"types,omitempty"`
	Genres []FacetCount `json:"genres,omitempty"`
	Tags   []FacetCount `json:"tags,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

var facetFields = []string{"type", "genres", "tags"}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		for _, field := range facetFields {
			searchRequest.AddFacet(field, bleve.NewFacetRequest(field, 20))
		}
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		for _, field := range []string{"name", "author", "narrator", "series_name", "show_name"} {
			searchRequest.Highlight.AddField(field)
		}
	}

	searchRequest.Fields = []string{
		"type", "item_id", "library_id", "name", "subtitle", "author", "narrator",
		"series_name", "show_name", "local", "duration",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:         hit.ID,
			Score:      hit.Score,
			Type:       DocType(stringField(hit.Fields, "type")),
			ItemID:     stringField(hit.Fields, "item_id"),
			LibraryID:  stringField(hit.Fields, "library_id"),
			Name:       stringField(hit.Fields, "name"),
			Subtitle:   stringField(hit.Fields, "subtitle"),
			Author:     stringField(hit.Fields, "author"),
			Narrator:   stringField(hit.Fields, "narrator"),
			SeriesName: stringField(hit.Fields, "series_name"),
			ShowName:   stringField(hit.Fields, "show_name"),
		}
		if l, ok := hit.Fields["local"].(bool); ok {
			searchHit.Local = l
		}
		if d, ok := hit.Fields["duration"].(float64); ok {
			searchHit.Duration = int64(d)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Titles rank above people and show notes. Episodes also match on
	// the show they belong to.
	if q := strings.TrimSpace(params.Query); q != "" {
		textQueries := []query.Query{
			fieldMatch(q, "name", 3.0),
			fieldMatch(q, "series_name", 1.5),
			fieldMatch(q, "author", 1.2),
			fieldMatch(q, "narrator", 1.0),
			fieldMatch(q, "show_name", 1.0),
			fieldMatch(q, "subtitle", 0.8),
			fieldMatch(q, "description", 0.3),
		}

		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for incremental typing (minimum 2 chars)
		if len(q) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Types) > 0 {
		types := make([]string, len(params.Types))
		for i, t := range params.Types {
			types[i] = string(t)
		}
		queries = append(queries, anyTerm("type", types))
	}

	if params.LibraryID != "" {
		queries = append(queries, anyTerm("library_id", []string{params.LibraryID}))
	}
	if len(params.Genres) > 0 {
		queries = append(queries, anyTerm("genres", params.Genres))
	}
	if len(params.Tags) > 0 {
		queries = append(queries, anyTerm("tags", params.Tags))
	}

	if params.LocalOnly {
		lq := bleve.NewBoolFieldQuery(true)
		lq.SetField("local")
		queries = append(queries, lq)
	}

	if params.MinDuration > 0 || params.MaxDuration > 0 {
		lo := float64(params.MinDuration)
		hi := float64(params.MaxDuration)
		if params.MaxDuration == 0 {
			hi = math.MaxFloat64
		}
		rangeQuery := bleve.NewNumericRangeQuery(&lo, &hi)
		rangeQuery.SetField("duration")
		queries = append(queries, rangeQuery)
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		lo := float64(params.MinYear)
		hi := float64(params.MaxYear)
		if params.MaxYear == 0 {
			hi = 3000 // Far future
		}
		rangeQuery := bleve.NewNumericRangeQuery(&lo, &hi)
		rangeQuery.SetField("publish_year")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

func fieldMatch(text, field string, boost float64) query.Query {
	q := bleve.NewMatchQuery(text)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// anyTerm matches documents whose keyword field equals any of values.
func anyTerm(field string, values []string) query.Query {
	terms := make([]query.Query, len(values))
	for i, v := range values {
		tq := bleve.NewTermQuery(v)
		tq.SetField(field)
		terms[i] = tq
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return bleve.NewDisjunctionQuery(terms...)
}

// addSorting configures sort order. Ties fall back to the document id so
// paging is stable.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	desc := params.SortOrder == "desc"
	field := func(name string, descending bool) string {
		if descending {
			return "-" + name
		}
		return name
	}

	switch params.SortBy {
	case SortTitle:
		req.SortBy([]string{field("sort_name", desc), "_id"})
	case SortRecent:
		req.SortBy([]string{field("added_at", params.SortOrder != "asc"), "_id"})
	case SortDuration:
		req.SortBy([]string{field("duration", params.SortOrder != "asc"), "_id"})
	default:
		req.SortBy([]string{"-_score", "_id"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	terms := func(name string) []FacetCount {
		facet, ok := result.Facets[name]
		if !ok || facet.Terms == nil {
			return nil
		}
		var out []FacetCount
		for _, term := range facet.Terms.Terms() {
			out = append(out, FacetCount{Value: term.Term, Count: term.Count})
		}
		return out
	}

	return SearchFacets{
		Types:  terms("type"),
		Genres: terms("genres"),
		Tags:   terms("tags"),
	}
}
