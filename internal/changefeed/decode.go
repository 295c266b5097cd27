package changefeed

import (
	"context"
	"encoding/json"

	"golang.org/x/exp/slog"

	"dayboard/internal/domain/collection"
)

// Decode turns bus messages into typed change events. The returned channel is
// closed when in is closed or ctx is done. Malformed messages are logged and skipped.
func Decode[R any](ctx context.Context, in <-chan Message, log *slog.Logger) <-chan collection.ChangeEvent[R] {
	out := make(chan collection.ChangeEvent[R])
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				ev, err := Event[R](msg)
				if err != nil {
					log.Error("unable to decode change", "table", msg.Table, "id", msg.ID, "error", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Event decodes one message into a change event of record type R.
func Event[R any](msg Message) (collection.ChangeEvent[R], error) {
	ev := collection.ChangeEvent[R]{Kind: msg.Kind, ID: msg.ID}
	if err := msg.Kind.Validate(); err != nil {
		return ev, err
	}
	if len(msg.Record) > 0 {
		if err := json.Unmarshal(msg.Record, &ev.Record); err != nil {
			return ev, err
		}
	}
	return ev, nil
}
