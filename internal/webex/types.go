package webex

import "encoding/json"

type Person struct {
	ID          string   `json:"id"`
	Emails      []string `json:"emails"`
	DisplayName string   `json:"displayName"`
	Type        string   `json:"type"`
}

type Message struct {
	ID          string `json:"id"`
	RoomID      string `json:"roomId"`
	PersonID    string `json:"personId"`
	PersonEmail string `json:"personEmail"`
	Text        string `json:"text"`
	Markdown    string `json:"markdown"`
}

// Attachment carries an adaptive card.
type Attachment struct {
	ContentType string `json:"contentType"`
	Content     any    `json:"content"`
}

const CardContentType = "application/vnd.microsoft.card.adaptive"

// MessageRequest creates a message in a room or a direct message.
type MessageRequest struct {
	RoomID        string       `json:"roomId,omitempty"`
	ToPersonEmail string       `json:"toPersonEmail,omitempty"`
	Text          string       `json:"text,omitempty"`
	Markdown      string       `json:"markdown,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// AttachmentAction is a submitted card. Inputs is either an object or a
// one-element list of objects.
type AttachmentAction struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	MessageID string          `json:"messageId"`
	PersonID  string          `json:"personId"`
	RoomID    string          `json:"roomId"`
	Inputs    json.RawMessage `json:"inputs"`
}

// Webhook is both a registration and the envelope posted to the bot for
// messages and card actions.
type Webhook struct {
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name"`
	TargetURL string      `json:"targetUrl,omitempty"`
	Resource  string      `json:"resource"`
	Event     string      `json:"event"`
	Secret    string      `json:"secret,omitempty"`
	Data      WebhookData `json:"data"`
}

type WebhookData struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	PersonID  string `json:"personId"`
	MessageID string `json:"messageId"`
}

type PeopleQuery struct {
	ID    string
	Email string
}
