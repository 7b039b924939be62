package medapi

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type AnalysisKind string

const (
	KindClassification AnalysisKind = "classification"
	KindDetection      AnalysisKind = "detection"
	KindSegmentation   AnalysisKind = "segmentation"

	StatusSuccess = "success"
)

// AnalysisResult is one of *Classification, *Detection or *Segmentation.
// The set is closed; use a type switch.
type AnalysisResult interface {
	Kind() AnalysisKind
	Annotated() string
	sealed()
}

// Classification confidence is a percentage after decoding.
type Classification struct {
	Status         string       `json:"status"`
	Type           AnalysisKind `json:"type"`
	ClassID        int          `json:"class_id"`
	Confidence     float64      `json:"confidence"`
	AnnotatedImage string       `json:"annotated_image"`
}

type DetectionBox struct {
	ClassID    int        `json:"class_id"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"`
}

// Detection confidences are percentages after decoding.
type Detection struct {
	Status         string         `json:"status"`
	Type           AnalysisKind   `json:"type"`
	Detections     []DetectionBox `json:"detections"`
	AnnotatedImage string         `json:"annotated_image"`
}

// Segmentation confidences arrive from the backend already scaled to 0..100.
type Segmentation struct {
	Status         string       `json:"status"`
	Type           AnalysisKind `json:"type"`
	MaskImage      string       `json:"mask_image"`
	AnnotatedImage string       `json:"annotated_image"`
	Confidences    []float64    `json:"confidences"`
}

func (r *Classification) Kind() AnalysisKind { return KindClassification }
func (r *Detection) Kind() AnalysisKind      { return KindDetection }
func (r *Segmentation) Kind() AnalysisKind   { return KindSegmentation }

func (r *Classification) Annotated() string { return r.AnnotatedImage }
func (r *Detection) Annotated() string      { return r.AnnotatedImage }
func (r *Segmentation) Annotated() string   { return r.AnnotatedImage }

func (*Classification) sealed() {}
func (*Detection) sealed()      {}
func (*Segmentation) sealed()   {}

// ToPercent turns a 0..1 fraction into a percentage with two decimals,
// e.g. 0.873 -> 87.3 and 0.005 -> 0.5.
func ToPercent(fraction float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(fraction*100, 'f', 2, 64), 64)
	if err != nil {
		return fraction * 100
	}
	return v
}

// DecodeAnalysis parses a vision response and converts fractions to percentages.
// Unknown types and non-success statuses are rejected with ErrUnexpectedResponse.
func DecodeAnalysis(data []byte) (AnalysisResult, error) {
	var envelope struct {
		Status string       `json:"status"`
		Type   AnalysisKind `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if envelope.Status != StatusSuccess {
		return nil, fmt.Errorf("%w: status %q", ErrUnexpectedResponse, envelope.Status)
	}

	switch envelope.Type {
	case KindClassification:
		var raw struct {
			ClassID        *int     `json:"class_id"`
			Confidence     *float64 `json:"confidence"`
			AnnotatedImage string   `json:"annotated_image"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: classification: %v", ErrUnexpectedResponse, err)
		}
		if raw.ClassID == nil || raw.Confidence == nil {
			return nil, fmt.Errorf("%w: classification missing fields", ErrUnexpectedResponse)
		}
		return &Classification{
			Status:         envelope.Status,
			Type:           KindClassification,
			ClassID:        *raw.ClassID,
			Confidence:     ToPercent(*raw.Confidence),
			AnnotatedImage: raw.AnnotatedImage,
		}, nil

	case KindDetection:
		var raw struct {
			Detections     *[]DetectionBox `json:"detections"`
			AnnotatedImage string          `json:"annotated_image"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: detection: %v", ErrUnexpectedResponse, err)
		}
		if raw.Detections == nil {
			return nil, fmt.Errorf("%w: detection missing detections", ErrUnexpectedResponse)
		}
		boxes := make([]DetectionBox, 0, len(*raw.Detections))
		for _, d := range *raw.Detections {
			d.Confidence = ToPercent(d.Confidence)
			boxes = append(boxes, d)
		}
		return &Detection{
			Status:         envelope.Status,
			Type:           KindDetection,
			Detections:     boxes,
			AnnotatedImage: raw.AnnotatedImage,
		}, nil

	case KindSegmentation:
		var raw struct {
			MaskImage      string     `json:"mask_image"`
			AnnotatedImage string     `json:"annotated_image"`
			Confidences    *[]float64 `json:"confidences"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: segmentation: %v", ErrUnexpectedResponse, err)
		}
		if raw.MaskImage == "" || raw.Confidences == nil {
			return nil, fmt.Errorf("%w: segmentation missing fields", ErrUnexpectedResponse)
		}
		return &Segmentation{
			Status:         envelope.Status,
			Type:           KindSegmentation,
			MaskImage:      raw.MaskImage,
			AnnotatedImage: raw.AnnotatedImage,
			Confidences:    *raw.Confidences,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrUnexpectedResponse, envelope.Type)
	}
}
