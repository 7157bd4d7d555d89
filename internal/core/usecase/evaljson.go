package usecase

import (
	"encoding/json"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
)

// ParseEvaluation turns raw model output into an Evaluation. It strips an
// optional surrounding markdown code fence and unmarshals the rest; when
// that fails it substitutes the documented fallback carrying the raw text,
// so evaluation never hard-fails on malformed model output. The returned
// bool reports whether structured parsing succeeded.
func ParseEvaluation(raw string) (domain.Evaluation, bool) {
	text := stripCodeFence(strings.TrimSpace(raw))

	var eval domain.Evaluation
	if err := json.Unmarshal([]byte(text), &eval); err != nil {
		return fallbackEvaluation(raw), false
	}

	// Missing lists render as [] downstream, never null.
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	if eval.Weaknesses == nil {
		eval.Weaknesses = []string{}
	}
	if eval.Covered == nil {
		eval.Covered = []string{}
	}
	if eval.Missing == nil {
		eval.Missing = []string{}
	}
	if eval.Explanations == nil {
		eval.Explanations = []string{}
	}
	if strings.TrimSpace(eval.Score) == "" {
		eval.Score = "N/A"
	}
	return eval, true
}

func fallbackEvaluation(raw string) domain.Evaluation {
	return domain.Evaluation{
		Strengths:    []string{},
		Weaknesses:   []string{},
		Covered:      []string{},
		Missing:      []string{},
		Explanations: []string{},
		Score:        "N/A",
		Overall:      "Lỗi parse JSON",
		RawText:      raw,
	}
}

// stripCodeFence removes one surrounding ``` fence, tolerating a "json"
// language tag either on the fence line or alone on the next line.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= 2 {
		return s
	}
	s = strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
	if strings.HasPrefix(s, "json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "json"))
	}
	return s
}
