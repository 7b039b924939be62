package medapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.873, 87.3},
		{0.005, 0.5},
		{0, 0},
		{1, 100},
		{0.5, 50},
		{0.25, 25},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ToPercent(tt.in), "ToPercent(%v)", tt.in)
	}
}

func TestDecodeAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind AnalysisKind
		wantErr  bool
	}{
		{
			name:     "classification",
			body:     `{"status":"success","type":"classification","class_id":0,"confidence":0.005,"annotated_image":"/images/a.png"}`,
			wantKind: KindClassification,
		},
		{
			name:     "detection with no boxes",
			body:     `{"status":"success","type":"detection","detections":[],"annotated_image":"/images/a.png"}`,
			wantKind: KindDetection,
		},
		{
			name:     "segmentation",
			body:     `{"status":"success","type":"segmentation","mask_image":"/m.png","annotated_image":"/a.png","confidences":[]}`,
			wantKind: KindSegmentation,
		},
		{
			name:    "unknown type",
			body:    `{"status":"success","type":"captioning","caption":"x"}`,
			wantErr: true,
		},
		{
			name:    "missing type",
			body:    `{"status":"success"}`,
			wantErr: true,
		},
		{
			name:    "status not success",
			body:    `{"status":"error","type":"classification","class_id":1,"confidence":0.2}`,
			wantErr: true,
		},
		{
			name:    "classification without confidence",
			body:    `{"status":"success","type":"classification","class_id":1}`,
			wantErr: true,
		},
		{
			name:    "detection without detections",
			body:    `{"status":"success","type":"detection","annotated_image":"/a.png"}`,
			wantErr: true,
		},
		{
			name:    "segmentation without mask",
			body:    `{"status":"success","type":"segmentation","confidences":[1]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `<html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeAnalysis([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnexpectedResponse)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, res.Kind())
		})
	}
}

func TestDecodeClassificationConvertsToPercent(t *testing.T) {
	res, err := DecodeAnalysis([]byte(`{"status":"success","type":"classification","class_id":2,"confidence":0.873,"annotated_image":"/images/c.png"}`))
	require.NoError(t, err)

	cls, ok := res.(*Classification)
	require.True(t, ok)
	assert.Equal(t, 87.3, cls.Confidence)
	assert.Equal(t, 2, cls.ClassID)
	assert.Equal(t, "/images/c.png", cls.Annotated())
}

func TestClampThreshold(t *testing.T) {
	assert.Equal(t, 0.0, ClampThreshold(-0.2))
	assert.Equal(t, 1.0, ClampThreshold(1.7))
	assert.Equal(t, 0.35, ClampThreshold(0.35))
}
