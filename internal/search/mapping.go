package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Titles and people get English full-text analysis with term vectors for
// highlighting. Ids, types, genres and tags are keywords for exact filters
// and facets. Duration, year and timestamps are numeric for ranges and sorts.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	text := func(field string, store, vectors bool) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = en.AnalyzerName
		fm.Store = store
		fm.IncludeTermVectors = vectors
		docMapping.AddFieldMappingsAt(field, fm)
	}
	kw := func(field string, store bool) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = store
		docMapping.AddFieldMappingsAt(field, fm)
	}
	num := func(field string) {
		fm := bleve.NewNumericFieldMapping()
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// --- Text fields (full-text searchable) ---
	text("name", true, true)
	text("subtitle", true, false)
	text("description", false, false) // searchable but too large to store
	text("author", true, true)
	text("narrator", true, true)
	text("series_name", true, true)
	text("show_name", true, true)

	// Publisher with simple analyzer (no stemming)
	publisher := bleve.NewTextFieldMapping()
	publisher.Analyzer = simple.Name
	publisher.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisher)

	// --- Keyword fields (exact match, facetable) ---
	kw("id", false)
	kw("type", true)
	kw("item_id", true)
	kw("library_id", true)
	kw("sort_name", false)
	kw("feed_url", true)
	kw("genres", true)
	kw("tags", true)

	local := bleve.NewBooleanFieldMapping()
	local.Store = true
	docMapping.AddFieldMappingsAt("local", local)

	// --- Numeric fields (range queries, sorting) ---
	num("duration")
	num("publish_year")
	num("added_at")
	num("updated_at")

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
