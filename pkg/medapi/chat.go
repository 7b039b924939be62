package medapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	ChatRoleUser      = "user"
	DefaultPromptType = "default"
)

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	SessionID    string     `json:"session_id"`
	Messages     []ChatTurn `json:"messages"`
	PromptType   string     `json:"prompt_type"`
	SystemPrompt string     `json:"system_prompt,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// NewUserChatRequest wraps a single user turn the way the chat page sends it.
func NewUserChatRequest(sessionID, content string) ChatRequest {
	return ChatRequest{
		SessionID:  sessionID,
		Messages:   []ChatTurn{{Role: ChatRoleUser, Content: content}},
		PromptType: DefaultPromptType,
	}
}

func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	if chatReq.PromptType == "" {
		chatReq.PromptType = DefaultPromptType
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, ChatEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.send(ctx, "medapi.Chat", req)
	if err != nil {
		return nil, err
	}

	var res struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(body, &res); err != nil || res.Response == nil {
		return nil, fmt.Errorf("%w: chat", ErrUnexpectedResponse)
	}
	return &ChatResponse{Response: *res.Response}, nil
}
