// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "time"
)

// ItemCreatedQueue is the durable queue item-created events are routed to.
const ItemCreatedQueue = "items.created"

// ItemCreatedEvent is published after POST /api/items answered 201.  It
// carries the item exactly as returned to the client so downstream consumers
// never need to ask the service for it (nothing is stored to ask from).
type ItemCreatedEvent struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description"`
    CreatedAt   string `json:"created_at"` // RFC 3339, UTC
}

// NewItemCreatedEvent stamps the event with the current UTC time.
func NewItemCreatedEvent(id uint64, name, description string) ItemCreatedEvent {
    return ItemCreatedEvent{
        ID:          id,
        Name:        name,
        Description: description,
        CreatedAt:   time.Now().UTC().Format(time.RFC3339),
    }
}

// DecodeItemCreated parses a delivery body.
func DecodeItemCreated(body []byte) (ItemCreatedEvent, error) {
    var ev ItemCreatedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return ItemCreatedEvent{}, fmt.Errorf("unmarshal: %w", err)
    }
    if ev.ID == 0 {
        return ItemCreatedEvent{}, errors.New("event has no item id")
    }
    return ev, nil
}
