package medapi

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
)

// Upload is an image held in memory for a vision call.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (c *Client) Classify(ctx context.Context, file Upload) (AnalysisResult, error) {
	return c.analyze(ctx, "medapi.Classify", ClassifyEndpoint, file, nil)
}

// Detect clamps confidence to [0,1] and sends it both as query and form field.
func (c *Client) Detect(ctx context.Context, file Upload, confidence float64) (AnalysisResult, error) {
	confidence = ClampThreshold(confidence)
	value := strconv.FormatFloat(confidence, 'f', -1, 64)
	endpoint := DetectEndpoint + "?" + url.Values{"confidence": {value}}.Encode()
	return c.analyze(ctx, "medapi.Detect", endpoint, file, map[string]string{"confidence": value})
}

func (c *Client) Segment(ctx context.Context, file Upload) (AnalysisResult, error) {
	return c.analyze(ctx, "medapi.Segment", SegmentEndpoint, file, nil)
}

func ClampThreshold(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func (c *Client) analyze(ctx context.Context, name, endpoint string, file Upload, fields map[string]string) (AnalysisResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.send(ctx, name, req)
	if err != nil {
		return nil, err
	}
	return DecodeAnalysis(body)
}
