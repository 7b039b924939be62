package constant

const (
	ChatSenderUser = "user"
	ChatSenderBot  = "bot"

	ChatGreetingMessage = "Xin chào! Tôi có thể giúp gì cho bạn!"
	ChatFallbackMessage = "⚠️ Lỗi khi gửi tin nhắn."
)

const (
	AnalysisModeClassification = "classification"
	AnalysisModeDetection      = "detection"
	AnalysisModeSegmentation   = "segmentation"

	// Slider default of the detection view.
	DefaultDetectionThreshold = 0.35

	AnalysisFailedMessage  = "Phân tích hình ảnh thất bại. Vui lòng thử lại."
	UnknownModeMessage     = "Chế độ phân tích không hợp lệ."
	NoModeSelectedMessage  = "Vui lòng chọn chế độ phân tích."
	UnsupportedFileMessage = "Chỉ hỗ trợ tệp hình ảnh."
)

const (
	LiveEventTranscriptUpdated = "transcript.updated"
	LiveEventAnalysisUpdated   = "analysis.updated"
	LiveEventAuthUpdated       = "auth.updated"
)
