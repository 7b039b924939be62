package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"medichat-web/internal/constant"
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/memory"
	"medichat-web/pkg/events"
	"medichat-web/pkg/medapi"
)

type IMediaService interface {
	SelectMode(clientID, mode string) (*dto.MediaSnapshot, error)
	Stage(clientID, name, contentType string, data []byte) (*dto.MediaSnapshot, error)
	Clear(clientID string) *dto.MediaSnapshot
	// Submit is a no-op returning (nil, nil) without a mode or a staged file,
	// and when a newer submission or a reset overtook this one.
	Submit(ctx context.Context, clientID string) (*dto.AnalysisView, error)
	SetThreshold(ctx context.Context, clientID string, value float64) (*dto.AnalysisView, error)
	Snapshot(clientID string) *dto.MediaSnapshot
}

type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
	PreviewURL  string
}

type workspace struct {
	mu        sync.Mutex
	mode      string
	file      *StagedFile
	result    *dto.AnalysisView
	threshold float64
	// Bumped by every submission and every reset; a response whose
	// version is no longer current is dropped.
	version  uint64
	inflight int
}

func newWorkspace() *workspace {
	return &workspace{threshold: constant.DefaultDetectionThreshold}
}

// reset must be called with mu held.
func (w *workspace) reset() {
	w.file = nil
	w.result = nil
	w.version++
}

func (w *workspace) snapshot() *dto.MediaSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := &dto.MediaSnapshot{
		Mode:      w.mode,
		Result:    w.result,
		Threshold: w.threshold,
		Loading:   w.inflight > 0,
	}
	if w.file != nil {
		snap.File = &dto.StagedFileView{
			Name:        w.file.Name,
			ContentType: w.file.ContentType,
			Size:        len(w.file.Data),
			PreviewURL:  w.file.PreviewURL,
		}
	}
	return snap
}

// ParseMode accepts the canonical mode names and their short aliases.
// The empty string means no mode.
func ParseMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "":
		return "", nil
	case constant.AnalysisModeClassification, "class":
		return constant.AnalysisModeClassification, nil
	case constant.AnalysisModeDetection, "detect":
		return constant.AnalysisModeDetection, nil
	case constant.AnalysisModeSegmentation, "segment":
		return constant.AnalysisModeSegmentation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

type mediaService struct {
	api        medapi.API
	assetBase  string
	workspaces *memory.SessionRepository[workspace]
	publisher  IPublisherService
	notifier   LiveNotifier
	logger     logger.ILogger
}

// NewMediaService builds the analysis workspace service. assetBase is the
// backend URL that relative result images are served from.
func NewMediaService(
	api medapi.API,
	assetBase string,
	publisher IPublisherService,
	notifier LiveNotifier,
	log logger.ILogger,
) IMediaService {
	return &mediaService{
		api:        api,
		assetBase:  assetBase,
		workspaces: memory.NewSessionRepository[workspace](),
		publisher:  publisher,
		notifier:   notifier,
		logger:     log,
	}
}

func (s *mediaService) workspace(clientID string) *workspace {
	return s.workspaces.GetOrCreate(clientID, newWorkspace)
}

func (s *mediaService) notify(clientID string, ws *workspace) *dto.MediaSnapshot {
	snap := ws.snapshot()
	s.notifier.Notify(clientID, constant.LiveEventAnalysisUpdated, snap)
	return snap
}

func (s *mediaService) SelectMode(clientID, mode string) (*dto.MediaSnapshot, error) {
	parsed, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	ws := s.workspace(clientID)
	ws.mu.Lock()
	ws.mode = parsed
	ws.threshold = constant.DefaultDetectionThreshold
	ws.reset()
	ws.mu.Unlock()

	return s.notify(clientID, ws), nil
}

func (s *mediaService) Stage(clientID, name, contentType string, data []byte) (*dto.MediaSnapshot, error) {
	if len(data) == 0 {
		return nil, ErrNotAnImage
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, contentType)
	}

	ws := s.workspace(clientID)
	ws.mu.Lock()
	if ws.mode == "" {
		ws.mu.Unlock()
		return nil, ErrNoModeSelected
	}
	ws.reset()
	ws.file = &StagedFile{
		Name:        name,
		ContentType: contentType,
		Data:        data,
		PreviewURL:  "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	ws.mu.Unlock()

	return s.notify(clientID, ws), nil
}

func (s *mediaService) Clear(clientID string) *dto.MediaSnapshot {
	ws := s.workspace(clientID)
	ws.mu.Lock()
	ws.reset()
	ws.mu.Unlock()

	return s.notify(clientID, ws)
}

func (s *mediaService) Snapshot(clientID string) *dto.MediaSnapshot {
	return s.workspace(clientID).snapshot()
}

func (s *mediaService) Submit(ctx context.Context, clientID string) (*dto.AnalysisView, error) {
	ws := s.workspace(clientID)

	ws.mu.Lock()
	if ws.mode == "" || ws.file == nil {
		ws.mu.Unlock()
		return nil, nil
	}
	ws.version++
	version := ws.version
	mode, file, threshold := ws.mode, *ws.file, ws.threshold
	ws.inflight++
	ws.mu.Unlock()

	s.notify(clientID, ws)

	view, err := s.analyze(ctx, mode, file, threshold)

	ws.mu.Lock()
	ws.inflight--
	if ws.version != version {
		ws.mu.Unlock()
		s.logger.Debug("MediaService", "Discarding stale analysis response", map[string]interface{}{
			"client_id": clientID,
			"mode":      mode,
		})
		return nil, nil
	}
	ws.result = view
	ws.mu.Unlock()

	if err != nil {
		s.logger.Warn("MediaService", "Analysis failed", map[string]interface{}{
			"client_id": clientID,
			"mode":      mode,
			"error":     err,
		})
		s.publisher.PublishEvent(ctx, events.New(constant.EventAnalysisFailed, map[string]interface{}{
			"client_id": clientID,
			"mode":      mode,
		}))
		s.notify(clientID, ws)
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	s.publisher.PublishEvent(ctx, events.New(constant.EventAnalysisCompleted, map[string]interface{}{
		"client_id": clientID,
		"mode":      mode,
	}))
	s.notify(clientID, ws)
	return view, nil
}

// SetThreshold stores the clamped value. In detection mode with a staged
// file a changed value triggers one new submission.
func (s *mediaService) SetThreshold(ctx context.Context, clientID string, value float64) (*dto.AnalysisView, error) {
	value = medapi.ClampThreshold(value)

	ws := s.workspace(clientID)
	ws.mu.Lock()
	changed := ws.threshold != value
	ws.threshold = value
	resubmit := changed && ws.mode == constant.AnalysisModeDetection && ws.file != nil
	ws.mu.Unlock()

	if !resubmit {
		s.notify(clientID, ws)
		return nil, nil
	}
	return s.Submit(ctx, clientID)
}

func (s *mediaService) analyze(ctx context.Context, mode string, file StagedFile, threshold float64) (*dto.AnalysisView, error) {
	upload := medapi.Upload{Name: file.Name, ContentType: file.ContentType, Data: file.Data}

	var (
		res  medapi.AnalysisResult
		want medapi.AnalysisKind
		err  error
	)
	switch mode {
	case constant.AnalysisModeClassification:
		want = medapi.KindClassification
		res, err = s.api.Classify(ctx, upload)
	case constant.AnalysisModeDetection:
		want = medapi.KindDetection
		res, err = s.api.Detect(ctx, upload, threshold)
	case constant.AnalysisModeSegmentation:
		want = medapi.KindSegmentation
		res, err = s.api.Segment(ctx, upload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err != nil {
		return nil, err
	}
	if res.Kind() != want {
		return nil, fmt.Errorf("%w: %s answered for %s", medapi.ErrUnexpectedResponse, res.Kind(), want)
	}
	return s.toView(res)
}

func (s *mediaService) toView(res medapi.AnalysisResult) (*dto.AnalysisView, error) {
	view := &dto.AnalysisView{
		Type:              string(res.Kind()),
		AnnotatedImageURL: medapi.ResolveAssetURL(s.assetBase, res.Annotated()),
	}

	switch r := res.(type) {
	case *medapi.Classification:
		classID, confidence := r.ClassID, r.Confidence
		view.ClassID = &classID
		view.Confidence = &confidence
	case *medapi.Detection:
		view.Detections = make([]dto.DetectionView, 0, len(r.Detections))
		for _, d := range r.Detections {
			view.Detections = append(view.Detections, dto.DetectionView{
				ClassID:    d.ClassID,
				Confidence: d.Confidence,
				BBox:       d.BBox,
			})
		}
	case *medapi.Segmentation:
		view.MaskImageURL = medapi.ResolveAssetURL(s.assetBase, r.MaskImage)
		view.Confidences = r.Confidences
	default:
		return nil, fmt.Errorf("%w: %T", medapi.ErrUnexpectedResponse, res)
	}
	return view, nil
}
