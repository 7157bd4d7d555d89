package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// chapter mirrors one entry of the knowledge-base JSON files: a chapter
// with an ordered list of sections.
type chapter struct {
	ID          any       `json:"id"`
	Index       string    `json:"Index"`
	Level1Items []string  `json:"level1_items"`
	Contents    []section `json:"contents"`
}

type section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Corpus is the flattened, ordered view of all knowledge files plus the
// disease catalog derived from the same chapters. Immutable after Load.
type Corpus struct {
	Units    []domain.KnowledgeUnit
	Diseases []domain.Disease
}

// Load flattens every chapter of every file into one KnowledgeUnit per
// section, preserving file and section order, and builds the catalog.
// Section identifiers must be unique across the whole corpus.
func Load(paths []string) (*Corpus, error) {
	c := &Corpus{}
	seen := make(map[string]string)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read corpus file: %w", err)
		}

		var chapters []chapter
		if err := json.Unmarshal(data, &chapters); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}

		fileName := filepath.Base(path)
		category := categoryFor(fileName)

		for _, chap := range chapters {
			chunkID := formatChunkID(chap.ID)

			for i, sec := range chap.Contents {
				sectionID := fmt.Sprintf("%s.%d", chunkID, i+1)
				if prev, ok := seen[sectionID]; ok {
					return nil, fmt.Errorf("duplicate section id %s in %s (already in %s)", sectionID, fileName, prev)
				}
				seen[sectionID] = fileName

				c.Units = append(c.Units, domain.KnowledgeUnit{
					Content:      sec.Content,
					SourceFile:   fileName,
					ChunkID:      chunkID,
					ChunkTitle:   chap.Index,
					SectionID:    sectionID,
					SectionTitle: sec.Title,
				})
			}

			c.Diseases = append(c.Diseases, domain.Disease{
				ID:       category + "_" + chunkID,
				Name:     chap.Index,
				Category: category,
				Source:   fileName,
				Sections: chap.Level1Items,
			})
		}
	}

	return c, nil
}

// categoryFor maps a knowledge file to its catalog category. Unknown
// files fall into the treatment-protocol bucket like the original corpus
// layout.
func categoryFor(fileName string) string {
	switch {
	case strings.Contains(fileName, "BoYTe200"):
		return "procedures"
	case strings.Contains(fileName, "NHIKHOA"):
		return "pediatrics"
	default:
		return "treatment"
	}
}

// formatChunkID renders the chapter id, which appears both as a JSON
// string and as a number across the corpus files.
func formatChunkID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}

// FilterDiseases applies the catalog's category and substring-search
// filters. An empty or "all" category matches everything.
func FilterDiseases(diseases []domain.Disease, category, search string) []domain.Disease {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Disease, 0, len(diseases))
	for _, d := range diseases {
		if category != "" && category != "all" && d.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Name), search) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Categories summarizes the catalog by category with entry counts, sorted
// by name.
func Categories(diseases []domain.Disease) []domain.CategoryCount {
	counts := make(map[string]int)
	for _, d := range diseases {
		counts[d.Category]++
	}
	out := make([]domain.CategoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, domain.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UniqueSections lists every distinct non-empty section label in the
// catalog, sorted.
func UniqueSections(diseases []domain.Disease) []string {
	seen := make(map[string]struct{})
	for _, d := range diseases {
		for _, s := range d.Sections {
			if s != "" {
				seen[s] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
