package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mocha-health/medrag/internal/core/domain"
)

func writeCorpusFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const nhikhoaJSON = `[
  {
    "id": "12",
    "Index": "Viêm phổi",
    "level1_items": ["Chẩn đoán", "Điều trị"],
    "contents": [
      {"title": "Chẩn đoán", "content": "Sốt, ho, thở nhanh."},
      {"title": "Điều trị", "content": "Kháng sinh theo phác đồ."}
    ]
  },
  {
    "id": 13,
    "Index": "Tiêu chảy cấp",
    "level1_items": ["Điều trị"],
    "contents": [
      {"title": "Điều trị", "content": "Bù dịch bằng oresol."}
    ]
  }
]`

func TestLoadFlattensSectionsInOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "NHIKHOA.json", nhikhoaJSON)

	c, err := Load([]string{path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(c.Units))
	}

	first := c.Units[0]
	if first.SectionID != "12.1" || first.ChunkID != "12" || first.ChunkTitle != "Viêm phổi" {
		t.Fatalf("first unit = %+v", first)
	}
	if first.SourceFile != "NHIKHOA.json" {
		t.Fatalf("source file = %q", first.SourceFile)
	}
	// Numeric chapter ids flatten without a decimal point.
	if c.Units[2].SectionID != "13.1" {
		t.Fatalf("numeric id section = %q", c.Units[2].SectionID)
	}
}

func TestLoadBuildsCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "NHIKHOA.json", nhikhoaJSON)

	c, err := Load([]string{path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Diseases) != 2 {
		t.Fatalf("expected 2 diseases, got %d", len(c.Diseases))
	}
	d := c.Diseases[0]
	if d.ID != "pediatrics_12" || d.Category != "pediatrics" || d.Name != "Viêm phổi" {
		t.Fatalf("disease = %+v", d)
	}
	if len(d.Sections) != 2 {
		t.Fatalf("sections = %v", d.Sections)
	}
}

func TestLoadRejectsDuplicateSectionIDs(t *testing.T) {
	dir := t.TempDir()
	a := writeCorpusFile(t, dir, "a.json", `[{"id":"1","Index":"A","contents":[{"title":"x","content":"y"}]}]`)
	b := writeCorpusFile(t, dir, "b.json", `[{"id":"1","Index":"B","contents":[{"title":"x","content":"y"}]}]`)

	if _, err := Load([]string{a, b}); err == nil {
		t.Fatalf("expected duplicate section id error")
	}
}

func TestFilterDiseases(t *testing.T) {
	catalog := []domain.Disease{
		{Name: "Viêm phổi", Category: "pediatrics"},
		{Name: "Viêm gan", Category: "treatment"},
		{Name: "Sởi", Category: "pediatrics"},
	}

	if got := FilterDiseases(catalog, "pediatrics", ""); len(got) != 2 {
		t.Fatalf("category filter: got %d", len(got))
	}
	if got := FilterDiseases(catalog, "all", "viêm"); len(got) != 2 {
		t.Fatalf("search filter: got %d", len(got))
	}
	if got := FilterDiseases(catalog, "pediatrics", "VIÊM"); len(got) != 1 {
		t.Fatalf("combined filter: got %d", len(got))
	}
}

func TestCategoriesAndSections(t *testing.T) {
	catalog := []domain.Disease{
		{Category: "pediatrics", Sections: []string{"Điều trị", "Chẩn đoán"}},
		{Category: "pediatrics", Sections: []string{"Điều trị", ""}},
		{Category: "treatment", Sections: nil},
	}

	cats := Categories(catalog)
	if len(cats) != 2 || cats[0].Name != "pediatrics" || cats[0].Count != 2 {
		t.Fatalf("categories = %v", cats)
	}

	sections := UniqueSections(catalog)
	if len(sections) != 2 {
		t.Fatalf("sections = %v", sections)
	}
	if sections[0] != "Chẩn đoán" || sections[1] != "Điều trị" {
		t.Fatalf("sections order = %v", sections)
	}
}
