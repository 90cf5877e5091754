package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSink writes events to the application log. It is used when no broker is configured.
type LogSink struct{}

// Publish logs the event at info level.
func (LogSink) Publish(_ context.Context, event Event) error {
	log.Info().
		Str("event", string(event.Type)).
		Str("account_id", event.AccountID).
		Str("current_value", event.CurrentValue.String()).
		Str("change", event.Change.String()).
		Str("amount", event.Amount.String()).
		Str("reference", event.Reference).
		Time("timestamp", event.Timestamp).
		Msg("portfolio notification")
	return nil
}
