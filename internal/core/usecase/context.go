package usecase

import (
	"fmt"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// contextBlockLimit bounds prompt size: at most three passages reach the
// generation service, however many candidates were retrieved.
const contextBlockLimit = 3

var contextDelimiter = strings.Repeat("=", 80)

// assembleContext renders the top units as numbered provenance blocks with
// the full, untruncated passage text. The model needs the verbatim passage
// to ground its answer and quote from it.
func assembleContext(units []domain.KnowledgeUnit) string {
	if len(units) > contextBlockLimit {
		units = units[:contextBlockLimit]
	}

	blocks := make([]string, 0, len(units))
	for i, unit := range units {
		blocks = append(blocks, fmt.Sprintf(
			"[%d] %s | %s | %s\nNỘI DUNG:\n%s\n%s",
			i+1,
			unit.SourceFile,
			unit.ChunkTitle,
			unit.SectionTitle,
			unit.Content,
			contextDelimiter,
		))
	}
	return strings.Join(blocks, "\n\n")
}
