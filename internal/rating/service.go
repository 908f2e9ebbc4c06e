// AngelaMos | 2026
// service.go

package rating

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type Service struct {
	tx      Transactor
	repo    Repository
	metrics *Metrics
}

func NewService(tx Transactor, repo Repository, metrics *Metrics) *Service {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Service{
		tx:      tx,
		repo:    repo,
		metrics: metrics,
	}
}

// Submission is the outcome of a successful Submit.
type Submission struct {
	Rating  *Rating
	Average core.Score
	Created bool
}

// Submit records userID's rating of storeID, replacing any earlier value,
// and rewrites the store's average in the same transaction. The store row
// is locked first, so concurrent submissions for one store never lose an
// update.
func (s *Service) Submit(
	ctx context.Context,
	userID, storeID string,
	value int,
) (*Submission, error) {
	if !ValidValue(value) {
		s.metrics.submissions.WithLabelValues(resultRejected).Inc()
		return nil, fmt.Errorf("submit rating: value %d: %w", value, core.ErrInvalidInput)
	}

	ctx, span := core.StartSpan(ctx, "rating.Submit",
		attribute.String("store.id", storeID),
		attribute.Int("rating.value", value),
	)
	defer span.End()

	start := time.Now()
	var result Submission

	err := s.tx.WithinTx(ctx, func(l Ledger) error {
		if err := l.LockStore(ctx, storeID); err != nil {
			return err
		}

		rating, err := l.Upsert(ctx, userID, storeID, value)
		if err != nil {
			return err
		}

		values, err := l.ValuesForStore(ctx, storeID)
		if err != nil {
			return err
		}

		avg := Average(values)
		core.AddSpanEvent(ctx, "rating.aggregated",
			attribute.Int("rating.count", len(values)),
			attribute.Float64("rating.average", avg.Float64()),
		)

		if err := l.SetStoreRating(ctx, storeID, avg); err != nil {
			return err
		}

		result = Submission{
			Rating:  rating,
			Average: avg,
			Created: rating.CreatedAt.Equal(rating.UpdatedAt),
		}
		return nil
	})
	s.metrics.aggregation.Observe(time.Since(start).Seconds())

	if err != nil {
		core.SetSpanError(ctx, err)
		s.metrics.submissions.WithLabelValues(resultFailed).Inc()
		return nil, fmt.Errorf("submit rating: %w", err)
	}

	outcome := resultUpdated
	if result.Created {
		outcome = resultCreated
	}
	s.metrics.submissions.WithLabelValues(outcome).Inc()
	s.metrics.values.WithLabelValues(strconv.Itoa(value)).Inc()

	slog.DebugContext(ctx, "rating stored",
		"user_id", userID,
		"store_id", storeID,
		"value", value,
		"average", result.Average.String(),
		"result", outcome,
	)

	return &result, nil
}

func (s *Service) ValuesByUser(
	ctx context.Context,
	userID string,
) (map[string]int, error) {
	return s.repo.ValuesByUser(ctx, userID)
}

func (s *Service) ListRatersByStore(
	ctx context.Context,
	storeID string,
) ([]Rater, error) {
	return s.repo.ListRatersByStore(ctx, storeID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
