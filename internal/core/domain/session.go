package domain

// Session bridges the case-generation and evaluation phases. Keyed by a
// caller-supplied identifier; overwritten wholesale if the identifier is
// reused (last-writer-wins).
type Session struct {
	ID       string          `json:"id"`
	Disease  string          `json:"disease"`
	Symptoms string          `json:"symptoms"`
	Case     string          `json:"case"`
	Sources  []KnowledgeUnit `json:"sources"`
}

// Diagnosis is the trainee's structured answer to a generated case.
type Diagnosis struct {
	Clinical              string `json:"clinical"`
	Paraclinical          string `json:"paraclinical"`
	DefinitiveDiagnosis   string `json:"definitiveDiagnosis"`
	DifferentialDiagnosis string `json:"differentialDiagnosis"`
	Treatment             string `json:"treatment"`
	Medication            string `json:"medication"`
}

// Evaluation mirrors the rubric JSON the generation service is prompted
// for. RawText is only set on the parse-fallback path and carries the
// model output verbatim.
type Evaluation struct {
	Strengths    []string `json:"diem_manh"`
	Weaknesses   []string `json:"diem_yeu"`
	Covered      []string `json:"da_co"`
	Missing      []string `json:"thieu"`
	Explanations []string `json:"dien_giai"`
	Score        string   `json:"diem_so"`
	Overall      string   `json:"nhan_xet_tong_quan"`
	RawText      string   `json:"evaluation_text,omitempty"`
}

// CaseStart is the outcome of the case-generation phase.
type CaseStart struct {
	SessionID      string          `json:"sessionId"`
	Disease        string          `json:"disease"`
	Case           string          `json:"case"`
	SymptomPreview string          `json:"symptoms"`
	Sources        []KnowledgeUnit `json:"sources"`
}

// EvaluationResult is the outcome of the evaluation phase.
type EvaluationResult struct {
	Case       string          `json:"case"`
	Standard   StandardAnswer  `json:"standardAnswer"`
	Evaluation Evaluation      `json:"evaluation"`
	Sources    []KnowledgeUnit `json:"sources"`
}
