package service

import (
	"context"
	"sync"

	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/memory"
	"medichat-web/internal/session"
	"medichat-web/pkg/events"
	"medichat-web/pkg/medapi"
)

// fakeAPI answers backend calls from per-call hooks and counts them.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	login         func(username, password string) (*medapi.TokenPair, error)
	logout        func(token string) error
	me            func(token string) (medapi.Profile, error)
	checkAccount  func(ident string) (bool, error)
	createAccount func(req medapi.AccountRequest) (*medapi.TokenPair, error)
	chat          func(req medapi.ChatRequest) (*medapi.ChatResponse, error)
	classify      func(file medapi.Upload) (medapi.AnalysisResult, error)
	detect        func(file medapi.Upload, confidence float64) (medapi.AnalysisResult, error)
	segment       func(file medapi.Upload) (medapi.AnalysisResult, error)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*medapi.TokenPair, error) {
	f.count("login")
	return f.login(username, password)
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.count("logout")
	if f.logout == nil {
		return nil
	}
	return f.logout(token)
}

func (f *fakeAPI) Me(ctx context.Context, token string) (medapi.Profile, error) {
	f.count("me")
	return f.me(token)
}

func (f *fakeAPI) CheckAccount(ctx context.Context, ident string) (bool, error) {
	f.count("check")
	return f.checkAccount(ident)
}

func (f *fakeAPI) CreateAccount(ctx context.Context, req medapi.AccountRequest) (*medapi.TokenPair, error) {
	f.count("create")
	return f.createAccount(req)
}

func (f *fakeAPI) Chat(ctx context.Context, req medapi.ChatRequest) (*medapi.ChatResponse, error) {
	f.count("chat")
	return f.chat(req)
}

func (f *fakeAPI) Classify(ctx context.Context, file medapi.Upload) (medapi.AnalysisResult, error) {
	f.count("classify")
	return f.classify(file)
}

func (f *fakeAPI) Detect(ctx context.Context, file medapi.Upload, confidence float64) (medapi.AnalysisResult, error) {
	f.count("detect")
	return f.detect(file, confidence)
}

func (f *fakeAPI) Segment(ctx context.Context, file medapi.Upload) (medapi.AnalysisResult, error) {
	f.count("segment")
	return f.segment(file)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	evt, err := events.Decode(payload)
	if err != nil {
		return err
	}
	p.PublishEvent(ctx, evt)
	return nil
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(map[string][]string)}
}

func (n *recordingNotifier) Notify(clientID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent[clientID] = append(n.sent[clientID], eventType)
}

func (n *recordingNotifier) For(clientID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent[clientID]...)
}

func newTestStores() (*session.Vault, *session.LocalStore) {
	local := session.NewLocalStore(memory.NewKeyValueRepository(), logger.NewNop())
	return session.NewVault(session.NewTokenStore(), local), local
}

// forgetfulRepository never keeps anything, like storage wiped between calls.
type forgetfulRepository struct{}

func (forgetfulRepository) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (forgetfulRepository) Set(ctx context.Context, key, value string) error { return nil }

func (forgetfulRepository) Delete(ctx context.Context, key string) error { return nil }
