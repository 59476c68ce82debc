// silk/types/chat.go
package types

// Message is one turn of a conversation. Metadata is an optional opaque
// payload the UI may attach (loan options, sanction references); the core
// never inspects it.
type Message struct {
	Role     string         `json:"role"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ChatRequest is the body of POST /agent/chat.
type ChatRequest struct {
	Messages       []Message `json:"messages"`
	ConversationID string    `json:"conversationId,omitempty"`
}
