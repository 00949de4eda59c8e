package models

import "time"

type RawMessageBuilder struct {
	msg *RawMessage
}

func NewRawMessageBuilder() *RawMessageBuilder {
	return &RawMessageBuilder{
		msg: &RawMessage{},
	}
}

func (b *RawMessageBuilder) WithMessageID(id string) *RawMessageBuilder {
	b.msg.MessageID = id
	return b
}

func (b *RawMessageBuilder) WithChannel(channel string) *RawMessageBuilder {
	b.msg.Channel = channel
	return b
}

func (b *RawMessageBuilder) WithAuthor(author string) *RawMessageBuilder {
	b.msg.Author = author
	return b
}

func (b *RawMessageBuilder) WithText(text string) *RawMessageBuilder {
	b.msg.Text = text
	return b
}

func (b *RawMessageBuilder) WithDate(date time.Time) *RawMessageBuilder {
	b.msg.Date = date
	return b
}

func (b *RawMessageBuilder) WithTraceID(traceID string) *RawMessageBuilder {
	b.msg.Metadata.TraceID = traceID
	return b
}

func (b *RawMessageBuilder) Build() *RawMessage {
	if b.msg.Date.IsZero() {
		b.msg.Date = time.Now().UTC()
	}
	return b.msg
}
