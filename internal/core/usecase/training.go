package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mocha-health/medrag/internal/core/domain"
	"github.com/mocha-health/medrag/internal/core/ports"
	"github.com/mocha-health/medrag/internal/core/prompt"
)

const (
	symptomPreviewRunes = 300
	citationLimit       = 3
)

// missingFieldText replaces blank diagnosis fields so the grader sees an
// explicit "none provided" instead of an empty line.
const missingFieldText = "Không có"

// SymptomSource and StandardSource are the two retrieval aggregates the
// training pipeline composes. Split per consumer so tests can fake them
// independently.
type SymptomSource interface {
	FindSymptoms(ctx context.Context, disease string) (string, []domain.KnowledgeUnit, error)
}

type StandardSource interface {
	StandardAnswer(ctx context.Context, disease string) (*domain.StandardAnswer, []domain.KnowledgeUnit, error)
}

// TrainingPipeline drives the two-phase flow: StartCase generates a
// caregiver narrative from retrieved symptoms and stores the session;
// Evaluate grades a diagnosis against a freshly rebuilt standard-answer
// document. The generator handle runs slightly above zero temperature so
// generated cases vary between sessions.
type TrainingPipeline struct {
	symptoms  SymptomSource
	standard  StandardSource
	generator ports.TextGenerator
	store     ports.SessionStore
}

func NewTrainingPipeline(
	symptoms SymptomSource,
	standard StandardSource,
	generator ports.TextGenerator,
	store ports.SessionStore,
) *TrainingPipeline {
	return &TrainingPipeline{
		symptoms:  symptoms,
		standard:  standard,
		generator: generator,
		store:     store,
	}
}

func (p *TrainingPipeline) StartCase(ctx context.Context, disease, sessionID string) (*domain.CaseStart, error) {
	disease = strings.TrimSpace(disease)
	if disease == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "start case", errEmptyDisease)
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "start case", errEmptySessionID)
	}

	symptoms, sources, err := p.symptoms.FindSymptoms(ctx, disease)
	if err != nil {
		return nil, fmt.Errorf("find symptoms: %w", err)
	}

	caseText, err := p.generator.Generate(ctx, prompt.PatientCase.Render(map[string]string{
		"disease":  disease,
		"symptoms": symptoms,
	}))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "generate case", err)
	}
	if strings.TrimSpace(caseText) == "" {
		return nil, domain.WrapError(domain.ErrGeneration, "generate case", errEmptyCompletion)
	}

	// Put overwrites any prior session under the same identifier,
	// including its evaluation state.
	session := &domain.Session{
		ID:       sessionID,
		Disease:  disease,
		Symptoms: symptoms,
		Case:     caseText,
		Sources:  sources,
	}
	if err := p.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &domain.CaseStart{
		SessionID:      sessionID,
		Disease:        disease,
		Case:           caseText,
		SymptomPreview: truncateRunes(symptoms, symptomPreviewRunes) + "...",
		Sources:        headUnits(sources, citationLimit),
	}, nil
}

func (p *TrainingPipeline) Evaluate(ctx context.Context, sessionID string, diagnosis domain.Diagnosis) (*domain.EvaluationResult, error) {
	session, err := p.store.Get(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	standard, stdSources, err := p.standard.StandardAnswer(ctx, session.Disease)
	if err != nil {
		return nil, fmt.Errorf("standard answer: %w", err)
	}

	raw, err := p.generator.Generate(ctx, prompt.Evaluation.Render(map[string]string{
		"doctor_answer":   formatDiagnosis(diagnosis),
		"standard_answer": standard.Content,
	}))
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "generate evaluation", err)
	}

	evaluation, parsed := ParseEvaluation(raw)
	if !parsed {
		slog.Warn("evaluation_parse_fallback",
			"session_id", session.ID,
			"disease", session.Disease,
			"raw_len", len(raw),
		)
	}

	return &domain.EvaluationResult{
		Case:       session.Case,
		Standard:   *standard,
		Evaluation: evaluation,
		Sources:    headUnits(stdSources, citationLimit),
	}, nil
}

// formatDiagnosis flattens the structured diagnosis into the free-text
// block the rubric prompt expects, with explicit placeholders for fields
// the trainee left blank.
func formatDiagnosis(d domain.Diagnosis) string {
	return fmt.Sprintf(`CHẨN ĐOÁN:
- Lâm sàng: %s
- Cận lâm sàng: %s
- Chẩn đoán xác định: %s
- Chẩn đoán phân biệt: %s

KẾ HOẠCH ĐIỀU TRỊ:
- Cách điều trị: %s
- Thuốc: %s`,
		orMissing(d.Clinical),
		orMissing(d.Paraclinical),
		orMissing(d.DefinitiveDiagnosis),
		orMissing(d.DifferentialDiagnosis),
		orMissing(d.Treatment),
		orMissing(d.Medication),
	)
}

func orMissing(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return missingFieldText
	}
	return s
}

func headUnits(units []domain.KnowledgeUnit, n int) []domain.KnowledgeUnit {
	if len(units) <= n {
		return units
	}
	return units[:n]
}
