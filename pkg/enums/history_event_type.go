package enums

import "fmt"

// HistoryEventType classifies entries in the order history log.
type HistoryEventType string

const (
	HistoryEventStatusChange HistoryEventType = "status_change"
	HistoryEventNote         HistoryEventType = "note"
	HistoryEventView         HistoryEventType = "view"
	HistoryEventManual       HistoryEventType = "manual"
)

var validHistoryEventTypes = []HistoryEventType{
	HistoryEventStatusChange,
	HistoryEventNote,
	HistoryEventView,
	HistoryEventManual,
}

// IsValid reports whether the value is a known HistoryEventType.
func (h HistoryEventType) IsValid() bool {
	for _, candidate := range validHistoryEventTypes {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHistoryEventType converts raw input into a HistoryEventType.
func ParseHistoryEventType(value string) (HistoryEventType, error) {
	for _, candidate := range validHistoryEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid history event type %q", value)
}
