// internal/chat/models.go
package chat

import "time"

// Sender tags who produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// MessageImage is an image attached to a sent message.
type MessageImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// Message is ephemeral, per session only; it is never persisted and is
// discarded when the hosting session closes.
type Message struct {
	ID          string         `json:"id"`
	Sender      Sender         `json:"sender"`
	Content     string         `json:"content"`
	Timestamp   time.Time      `json:"timestamp"`
	Suggestions []string       `json:"suggestions,omitempty"`
	Images      []MessageImage `json:"images,omitempty"`
}

// FileMeta describes a file the user picked for attachment.
type FileMeta struct {
	Name      string
	Size      int64
	MediaType string
}

// PendingImage is a staged attachment: selected, previewable, not yet sent.
type PendingImage struct {
	ID       string
	URL      string
	FileName string
}

// QuickPrompt is one of the fixed shortcut prompts shown beside a chat.
type QuickPrompt struct {
	Text     string
	Category string
}

// QuickPrompts returns the fixed shortcut pool. Clicking one is equivalent
// to typing and sending that exact text.
func QuickPrompts() []QuickPrompt {
	return []QuickPrompt{
		{Text: "Validate my business idea", Category: "Validation"},
		{Text: "Analyze market opportunity", Category: "Market Research"},
		{Text: "Create financial projections", Category: "Finance"},
		{Text: "Define target customers", Category: "Strategy"},
	}
}
