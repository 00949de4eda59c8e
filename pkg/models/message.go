package models

import "time"

// RawMessage is the unit of work delivered by the channel-ingestion
// gateway: one free-text message captured from a broker channel.
type RawMessage struct {
	MessageID string    `json:"message_id" bson:"message_id"`
	Channel   string    `json:"channel" bson:"channel"`
	Author    string    `json:"author,omitempty" bson:"author,omitempty"`
	Text      string    `json:"text" bson:"text"`
	Date      time.Time `json:"date" bson:"date"`
	Metadata  Metadata  `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

type Metadata struct {
	TraceID     string     `json:"trace_id,omitempty" bson:"trace_id,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}
