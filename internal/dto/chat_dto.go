package dto

type ChatMessage struct {
	Text     string `json:"text"`
	Sender   string `json:"sender"`
	ImageURL string `json:"image_url,omitempty"`
	Seq      uint64 `json:"seq,omitempty"`
	ReplyTo  uint64 `json:"reply_to,omitempty"`
}

type ChatSnapshot struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	Loading   bool          `json:"loading"`
}

type SendChatRequest struct {
	Message string `json:"message" form:"message"`
}

type SendChatResult struct {
	Sent     bool          `json:"sent"`
	Draft    string        `json:"draft"`
	Message  *ChatMessage  `json:"message,omitempty"`
	Reply    *ChatMessage  `json:"reply,omitempty"`
	Snapshot *ChatSnapshot `json:"snapshot"`
}
