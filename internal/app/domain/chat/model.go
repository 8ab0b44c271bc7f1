// Package chat defines project chat messages.
package chat

import "time"

// Message is one chat message in a project room. SenderName is filled from
// the users table when listing.
type Message struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"projectId"`
	SenderID   int64     `json:"senderId"`
	SenderName string    `json:"senderName,omitempty"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
