package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the mapping for recipe documents.
//
// Text fields use the simple analyzer (letter tokenizer plus lowercase),
// which handles Cyrillic and Latin alike without language-specific
// stemming. Identifiers and slugs are keywords for exact filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	doc := bleve.NewDocumentMapping()

	text := func(store bool) *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = simple.Name
		fm.Store = store
		fm.IncludeTermVectors = store
		return fm
	}
	kw := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		return fm
	}

	doc.AddFieldMappingsAt("name", text(true))
	doc.AddFieldMappingsAt("text", text(false))
	doc.AddFieldMappingsAt("ingredients", text(true))
	doc.AddFieldMappingsAt("tags", text(true))

	doc.AddFieldMappingsAt("id", kw())
	doc.AddFieldMappingsAt("author_id", kw())
	doc.AddFieldMappingsAt("tag_slugs", kw())

	cookingTime := bleve.NewNumericFieldMapping()
	cookingTime.Store = true
	doc.AddFieldMappingsAt("cooking_time", cookingTime)

	pubDate := bleve.NewNumericFieldMapping()
	pubDate.Store = true
	doc.AddFieldMappingsAt("pub_date", pubDate)

	indexMapping.AddDocumentMapping("_default", doc)
	return indexMapping
}
