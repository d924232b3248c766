package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий поиска пути
const (
	EventPathCompleted = "PathCompleted"

	pathEventVersion = 1
)

// PathEvent описывает полезную нагрузку события о завершении поиска пути
type PathEvent struct {
	RequestID string `json:"request_id"`
	Source    [3]int `json:"source"`
	Sink      [3]int `json:"sink"`
	Reason    string `json:"reason"`
	Solved    bool   `json:"solved"`
	Length    int    `json:"length"`
	Expanded  int    `json:"expanded"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// NewPathEnvelope упаковывает PathEvent в Envelope с новым UUID
func NewPathEnvelope(source string, pe PathEvent, elapsed time.Duration) (*Envelope, error) {
	pe.ElapsedMs = elapsed.Milliseconds()

	payload, err := json.Marshal(pe)
	if err != nil {
		return nil, fmt.Errorf("сериализация PathEvent: %w", err)
	}

	priority := 1
	if !pe.Solved {
		priority = 3
	}

	return &Envelope{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Source:        source,
		EventType:     EventPathCompleted,
		Version:       pathEventVersion,
		CorrelationID: pe.RequestID,
		Priority:      priority,
		Payload:       payload,
		Metadata:      map[string]string{"reason": pe.Reason},
	}, nil
}

// DecodePathEvent извлекает PathEvent из Envelope
func DecodePathEvent(ev *Envelope) (PathEvent, error) {
	var pe PathEvent
	if ev.EventType != EventPathCompleted {
		return pe, fmt.Errorf("неожиданный тип события %q", ev.EventType)
	}
	if ev.Version != pathEventVersion {
		return pe, fmt.Errorf("неподдерживаемая версия %d события %s", ev.Version, ev.EventType)
	}
	if err := json.Unmarshal(ev.Payload, &pe); err != nil {
		return pe, fmt.Errorf("разбор PathEvent: %w", err)
	}
	return pe, nil
}
