package domain

// KnowledgeUnit is the atomic retrievable passage. Units are created once
// when the corpus is loaded and are immutable for the process lifetime.
type KnowledgeUnit struct {
	Content      string `json:"content"`
	SourceFile   string `json:"source_file"`
	ChunkID      string `json:"chunk_id"`
	ChunkTitle   string `json:"chunk_title"`
	SectionID    string `json:"section_id"`
	SectionTitle string `json:"section_title"`
}

// ScoredUnit pairs a unit with its keyword relevance for one query.
// Ephemeral, never persisted.
type ScoredUnit struct {
	Unit  KnowledgeUnit
	Score int
}

type Answer struct {
	Text    string          `json:"text"`
	Sources []KnowledgeUnit `json:"sources"`
}

// StandardAnswer is the five-facet reference document for a disease,
// rebuilt fresh on every evaluation request.
type StandardAnswer struct {
	Disease string            `json:"disease"`
	Content string            `json:"content"`
	Facets  map[string]string `json:"facets"`
}

// CategoryCount is a catalog summary row.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Disease is a catalog entry derived from one corpus chapter.
type Disease struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Source   string   `json:"source"`
	Sections []string `json:"sections"`
}
