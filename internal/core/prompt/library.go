package prompt

// The three fixed prompts of the pipeline. Wording is load-bearing: the
// corpus and the downstream graders are Vietnamese, and the evaluation
// template pins the rubric JSON schema the parser expects.
var (
	Answer = mustTemplate("answer", 1, answerText, "context", "question")

	PatientCase = mustTemplate("patient_case", 1, patientCaseText, "disease", "symptoms")

	Evaluation = mustTemplate("evaluation", 1, evaluationText, "doctor_answer", "standard_answer")
)

const answerText = `Bạn là bác sĩ y khoa. Dựa vào TÀI LIỆU sau:

CONTEXT:
{context}

CÂU HỎI: {question}

TRẢ LỜI:
1. TRÍCH DẪN ĐÚNG nội dung từ CONTEXT (giữ nguyên văn bản)
2. Tóm tắt ngắn gọn nếu cần
3. Luôn ưu tiên thông tin từ chunk chính xác nhất
`

const patientCaseText = `Bạn là bác sĩ nhi khoa. Tạo một ca bệnh THỰC TẾ cho bệnh: {disease}

TRIỆU CHỨNG TỪ TÀI LIỆU:
{symptoms}

YÊU CẦU:
1. Chỉ tạo lời thoại của mẹ bệnh nhân (3-4 câu)
2. PHẢI MÔ TẢ các triệu chứng CỤ THỂ của bệnh {disease} từ tài liệu trên
3. Dùng ngôn ngữ đời thường, tự nhiên
4. Format: "Bé [tên] nhà chị [tên mẹ] bữa nay bị [triệu chứng cụ thể]. Chị lo lắm! [thêm chi tiết triệu chứng]."

CASE BỆNH:
`

const evaluationText = `BẠN LÀ CHUYÊN GIA Y KHOA ĐÁNH GIÁ BÁC SĨ

CÂU TRẢ LỜI BÁC SĨ:
{doctor_answer}

KIẾN THỨC CHUẨN:
{standard_answer}

PHÂN TÍCH CHI TIẾT (JSON):
{
  "diem_manh": ["..."],
  "diem_yeu": ["..."],
  "da_co": ["..."],
  "thieu": ["..."],
  "dien_giai": ["Giải thích vì sao đúng/thiếu..."],
  "diem_so": "85/100",
  "nhan_xet_tong_quan": "..."
}

JSON PURE:
`
