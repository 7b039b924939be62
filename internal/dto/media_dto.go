package dto

type SelectModeRequest struct {
	Mode string `json:"mode" form:"mode"`
}

type ConfidenceRequest struct {
	Confidence float64 `json:"confidence" form:"confidence"`
}

type StagedFileView struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	PreviewURL  string `json:"preview_url"`
}

type DetectionView struct {
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// AnalysisView is the rendered form of one analysis result. Confidence
// values are percentages.
type AnalysisView struct {
	Type              string          `json:"type"`
	AnnotatedImageURL string          `json:"annotated_image_url,omitempty"`
	ClassID           *int            `json:"class_id,omitempty"`
	Confidence        *float64        `json:"confidence,omitempty"`
	Detections        []DetectionView `json:"detections,omitempty"`
	MaskImageURL      string          `json:"mask_image_url,omitempty"`
	Confidences       []float64       `json:"confidences,omitempty"`
}

type MediaSnapshot struct {
	Mode      string          `json:"mode"`
	File      *StagedFileView `json:"file,omitempty"`
	Result    *AnalysisView   `json:"result,omitempty"`
	Threshold float64         `json:"threshold"`
	Loading   bool            `json:"loading"`
}
