package httpadapter

import (
	"unicode/utf8"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// sourceContentLimit bounds how much passage text rides along in API
// responses; the full text stays server-side.
const sourceContentLimit = 500

type queryRequest struct {
	Question string `json:"question"`
}

type diseaseRequest struct {
	Disease string `json:"disease"`
}

type startCaseRequest struct {
	Disease   string `json:"disease"`
	SessionID string `json:"sessionId"`
}

type evaluateRequest struct {
	SessionID string           `json:"sessionId"`
	Diagnosis domain.Diagnosis `json:"diagnosis"`
}

type sourceDTO struct {
	File    string `json:"file"`
	Title   string `json:"title"`
	Section string `json:"section"`
	Content string `json:"content,omitempty"`
}

type queryResponse struct {
	Answer  string      `json:"answer"`
	Sources []sourceDTO `json:"sources"`
}

type standardAnswerResponse struct {
	Disease string            `json:"disease"`
	Content string            `json:"content"`
	Facets  map[string]string `json:"facets"`
	Sources []sourceDTO       `json:"sources"`
}

type symptomsResponse struct {
	Disease  string      `json:"disease"`
	Symptoms string      `json:"symptoms"`
	Sources  []sourceDTO `json:"sources"`
}

func toSourceDTOs(units []domain.KnowledgeUnit, withContent bool) []sourceDTO {
	out := make([]sourceDTO, 0, len(units))
	for _, u := range units {
		dto := sourceDTO{
			File:    u.SourceFile,
			Title:   u.ChunkTitle,
			Section: u.SectionTitle,
		}
		if withContent {
			dto.Content = truncateRunes(u.Content, sourceContentLimit)
		}
		out = append(out, dto)
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
