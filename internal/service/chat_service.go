package service

import (
	"context"
	"strings"
	"sync"

	"medichat-web/internal/constant"
	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/logger"
	"medichat-web/internal/repository/memory"
	"medichat-web/internal/session"
	"medichat-web/pkg/events"
	"medichat-web/pkg/medapi"
)

type IChatService interface {
	// Open makes sure the chat session id exists and the transcript is seeded.
	Open(ctx context.Context, clientID string) *dto.ChatSnapshot
	Send(ctx context.Context, clientID, draft string) *dto.SendChatResult
	Snapshot(clientID string) *dto.ChatSnapshot
}

type conversation struct {
	mu        sync.Mutex
	sessionID string
	messages  []dto.ChatMessage
	pending   int
	seq       uint64
}

func (c *conversation) snapshot() *dto.ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]dto.ChatMessage, len(c.messages))
	copy(messages, c.messages)
	return &dto.ChatSnapshot{
		SessionID: c.sessionID,
		Messages:  messages,
		Loading:   c.pending > 0,
	}
}

type chatService struct {
	api           medapi.API
	local         *session.LocalStore
	conversations *memory.SessionRepository[conversation]
	publisher     IPublisherService
	notifier      LiveNotifier
	logger        logger.ILogger
}

func NewChatService(
	api medapi.API,
	local *session.LocalStore,
	publisher IPublisherService,
	notifier LiveNotifier,
	log logger.ILogger,
) IChatService {
	return &chatService{
		api:           api,
		local:         local,
		conversations: memory.NewSessionRepository[conversation](),
		publisher:     publisher,
		notifier:      notifier,
		logger:        log,
	}
}

func (s *chatService) conversation(ctx context.Context, clientID string) *conversation {
	return s.conversations.GetOrCreate(clientID, func() *conversation {
		return &conversation{
			sessionID: s.local.GetSessionID(ctx, clientID),
			messages: []dto.ChatMessage{{
				Text:   constant.ChatGreetingMessage,
				Sender: constant.ChatSenderBot,
			}},
		}
	})
}

// syncSessionID puts the conversation's id back into storage if it went
// missing there, and adopts the stored one otherwise.
func (s *chatService) syncSessionID(ctx context.Context, clientID string, conv *conversation) {
	conv.mu.Lock()
	current := conv.sessionID
	conv.mu.Unlock()

	id := s.local.EnsureSessionID(ctx, clientID, current)

	conv.mu.Lock()
	conv.sessionID = id
	conv.mu.Unlock()
}

func (s *chatService) Open(ctx context.Context, clientID string) *dto.ChatSnapshot {
	conv := s.conversation(ctx, clientID)
	s.syncSessionID(ctx, clientID, conv)
	return conv.snapshot()
}

func (s *chatService) Snapshot(clientID string) *dto.ChatSnapshot {
	conv, ok := s.conversations.Get(clientID)
	if !ok {
		return &dto.ChatSnapshot{Messages: []dto.ChatMessage{}}
	}
	return conv.snapshot()
}

// Send appends the user turn right away, then exactly one bot turn: the
// backend reply or the fallback apology. Sends are not serialized; bot turns
// land in completion order and carry ReplyTo.
func (s *chatService) Send(ctx context.Context, clientID, draft string) *dto.SendChatResult {
	conv := s.conversation(ctx, clientID)

	text := strings.Clone(strings.TrimSpace(draft))
	if text == "" {
		return &dto.SendChatResult{Sent: false, Draft: draft, Snapshot: conv.snapshot()}
	}

	conv.mu.Lock()
	conv.seq++
	userMsg := dto.ChatMessage{Text: text, Sender: constant.ChatSenderUser, Seq: conv.seq}
	conv.messages = append(conv.messages, userMsg)
	conv.pending++
	sessionID := conv.sessionID
	conv.mu.Unlock()

	s.notifier.Notify(clientID, constant.LiveEventTranscriptUpdated, conv.snapshot())

	botText := constant.ChatFallbackMessage
	reply, err := s.api.Chat(ctx, medapi.NewUserChatRequest(sessionID, text))
	if err != nil {
		s.logger.Warn("ChatService", "Chat request failed", map[string]interface{}{
			"client_id":  clientID,
			"session_id": sessionID,
			"seq":        userMsg.Seq,
			"error":      err,
		})
	} else {
		botText = reply.Response
	}

	conv.mu.Lock()
	botMsg := dto.ChatMessage{Text: botText, Sender: constant.ChatSenderBot, ReplyTo: userMsg.Seq}
	conv.messages = append(conv.messages, botMsg)
	conv.pending--
	conv.mu.Unlock()

	s.syncSessionID(ctx, clientID, conv)

	s.publisher.PublishEvent(ctx, events.New(constant.EventChatTurn, map[string]interface{}{
		"client_id":  clientID,
		"session_id": sessionID,
		"seq":        userMsg.Seq,
		"ok":         err == nil,
	}))

	snapshot := conv.snapshot()
	s.notifier.Notify(clientID, constant.LiveEventTranscriptUpdated, snapshot)

	return &dto.SendChatResult{
		Sent:     true,
		Draft:    "",
		Message:  &userMsg,
		Reply:    &botMsg,
		Snapshot: snapshot,
	}
}
