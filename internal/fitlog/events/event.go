package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/fitlog/internal/fitlog/calendar"
	"github.com/2beens/fitlog/internal/fitlog/entry"
)

var ErrNotFound = errors.New("log event not found")

type Source string

const (
	SourceVoice   Source = "voice"
	SourceText    Source = "text"
	SourceManual  Source = "manual"
	SourceWorkout Source = "workout"
)

// ParseSource maps an inbound source name onto a Source. Empty means text.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(strings.TrimSpace(s))); src {
	case "":
		return SourceText, nil
	case SourceVoice, SourceText, SourceManual, SourceWorkout:
		return src, nil
	default:
		return "", fmt.Errorf("unknown source [%s]", s)
	}
}

// LogEvent is the immutable record of one input. It is only removed by an
// explicit deletion, after its contribution was reversed.
type LogEvent struct {
	ID        uuid.UUID   `json:"id"`
	UserID    string      `json:"userId"`
	Date      time.Time   `json:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	RawText   string      `json:"rawText"`
	Parsed    entry.Guess `json:"parsed"`
	Type      Source      `json:"type"`
}

func New(userID string, day time.Time, rawText string, parsed entry.Guess, source Source) LogEvent {
	return LogEvent{
		ID:      uuid.New(),
		UserID:  userID,
		Date:    day,
		RawText: rawText,
		Parsed:  parsed,
		Type:    source,
	}
}

type logEventAlias LogEvent

type logEventJSON struct {
	logEventAlias
	Date string `json:"date"`
}

func (e LogEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(logEventJSON{
		logEventAlias: logEventAlias(e),
		Date:          calendar.Format(e.Date),
	})
}
