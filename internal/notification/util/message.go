package util

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
)

// GenerateEventID generates a new event ID if not provided
func GenerateEventID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// GenerateEventTime generates a new event time if not provided
func GenerateEventTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// CreateProducerMessage creates a producer message from an event
func CreateProducerMessage(event interface{}, key string, properties map[string]string, eventTime time.Time) (*pulsar.ProducerMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event: %w", err)
	}

	return &pulsar.ProducerMessage{
		Payload:    data,
		Key:        key,
		Properties: properties,
		EventTime:  eventTime,
	}, nil
}

// TruncateContent shortens content to at most maxLength runes, ending with
// an ellipsis when cut
func TruncateContent(content string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(content) <= maxLength {
		return content
	}
	runes := []rune(content)
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
