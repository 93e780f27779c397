// Package queue defines message payloads exchanged over the message broker.
package queue

// RegisteredQueue is the durable queue carrying UserRegisteredEvent.
const RegisteredQueue = "user.registered"

// UserRegisteredEvent is published after a new usuario row is committed.
// It holds everything the confirmation mail needs, so consumers never
// query the primary database.
type UserRegisteredEvent struct {
    EventID      string `json:"event_id"`
    DocumentID   string `json:"iddocumento"`
    Email        string `json:"correousuario"`
    Name         string `json:"nombreusuario"`
    Role         string `json:"tipousuario"`
    RegisteredAt string `json:"registered_at"`
}
