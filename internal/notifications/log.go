package notifications

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/daxwell/orderdesk/internal/models"
	"github.com/daxwell/orderdesk/internal/storage"
)

// DefaultFeedLimit caps the recent feed when the caller does not ask
// for a specific size.
const DefaultFeedLimit = 20

// Log maintains the per-order history sequences and derives the
// cross-order recent-activity feed from them. It shares the order
// collection with the store through the same Backend.
type Log struct {
	backend storage.Backend
	logger  *zap.Logger
	timeNow func() time.Time
}

func NewLog(backend storage.Backend, logger *zap.Logger) *Log {
	return &Log{
		backend: backend,
		logger:  logger,
		timeNow: time.Now,
	}
}

// Append records one event against the first order matching the
// number, creating the history sequence on first use. Two identical
// calls append two entries.
func (l *Log) Append(ctx context.Context, orderNumber, event, timestamp string) error {
	orders, err := l.backend.Load(ctx)
	if err != nil {
		return err
	}

	if timestamp == "" {
		timestamp = l.timeNow().UTC().Format(time.RFC3339)
	}

	for i := range orders {
		if orders[i].OrderNumber == orderNumber {
			orders[i].History = append(orders[i].History, models.HistoryEntry{
				Event:     event,
				Timestamp: timestamp,
			})
			if err := l.backend.Save(ctx, orders); err != nil {
				return fmt.Errorf("failed to append history: %w", err)
			}
			l.logger.Debug("history entry appended",
				zap.String("orderNumber", orderNumber),
				zap.String("event", event))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", storage.ErrNotFound, orderNumber)
}

// Recent flattens every order's history into the notification feed,
// newest first, at most limit entries. Entries whose timestamp does
// not parse sort as the oldest. Never mutates state.
func (l *Log) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	orders, err := l.backend.Load(ctx)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	feed := make([]models.Notification, 0)
	for _, order := range orders {
		for _, entry := range order.History {
			message := entry.Event
			if message == "" {
				message = "Unknown Action"
			}
			feed = append(feed, models.Notification{
				Message:     message,
				Timestamp:   entry.Timestamp,
				OrderNumber: order.OrderNumber,
			})
		}
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return parseTimestamp(feed[i].Timestamp).After(parseTimestamp(feed[j].Timestamp))
	})

	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// parseTimestamp returns the zero time for anything that is not
// RFC3339, pushing unparseable entries to the end of the feed.
func parseTimestamp(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
