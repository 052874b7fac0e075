package messenger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// pollRetryDelay is how long the poller waits after a failed poll before
// trying again, so a broken endpoint is not hammered in a tight loop.
const pollRetryDelay = 2 * time.Second

// UpdateSource is the subset of the client the poller needs; it exists so
// tests can drive the poller without a live endpoint.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// UpdateHandler consumes one incoming update. Handler errors are logged by
// the poller and do not stop the loop.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *Update) error
}

// LongPoller repeatedly long-polls the bot API and feeds incoming updates
// to a handler. An update is confirmed (the offset advances past it) as
// soon as it has been dispatched, whether or not the handler succeeded.
type LongPoller struct {
	source  UpdateSource
	handler UpdateHandler
	timeout time.Duration
	logger  *slog.Logger
}

// NewLongPoller creates a poller over the given update source.
// It returns an error if the source or handler is nil.
func NewLongPoller(
	source UpdateSource,
	handler UpdateHandler,
	timeout time.Duration,
	logger *slog.Logger,
) (*LongPoller, error) {
	if source == nil {
		return nil, errors.New("messenger: update source cannot be nil")
	}
	if handler == nil {
		return nil, errors.New("messenger: update handler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &LongPoller{
		source:  source,
		handler: handler,
		timeout: timeout,
		logger:  logger.With("component", "messenger_poller"),
	}, nil
}

// Run polls until the context is canceled and returns the context's error.
func (p *LongPoller) Run(ctx context.Context) error {
	var offset int64

	p.logger.Info("starting long polling", "timeout", p.timeout)

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("polling stopped", "reason", err)
			return err
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			p.logger.Error("failed to get updates", "error", err)
			select {
			case <-time.After(pollRetryDelay):
			case <-ctx.Done():
			}
			continue
		}

		for i := range updates {
			update := &updates[i]
			offset = update.UpdateID + 1

			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if err := p.handler.HandleUpdate(ctx, update); err != nil {
				p.logger.Error("failed to handle update",
					"error", err,
					"update_id", update.UpdateID)
			}
		}
	}
}
