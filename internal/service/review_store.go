package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/movieclub/internal/benchmark"
	"github.com/iliyamo/movieclub/internal/calibration"
	"github.com/iliyamo/movieclub/internal/insight"
	"github.com/iliyamo/movieclub/internal/model"
	"github.com/iliyamo/movieclub/internal/queue"
	"github.com/iliyamo/movieclub/internal/repository"
)

// Storage keys.  Both are rewritten on every mutation.
const (
	ReviewsKey     = "movieclub_reviews"
	CalibrationKey = "movieclub_calibration"
)

const publishTimeout = 5 * time.Second

// ReviewStore owns the review collection, keyed by film id, and the
// distribution derived from it.  All methods are safe for concurrent use.
type ReviewStore struct {
	kv       repository.KV
	analyzer *calibration.Analyzer
	events   EventPublisher
	log      *slog.Logger
	now      func() time.Time

	mu      sync.RWMutex
	reviews map[model.FilmID]model.Review
	dist    calibration.Distribution

	pending sync.WaitGroup
}

// NewReviewStore creates an empty store.  Call Load to read persisted state.
// events and log may be nil.
func NewReviewStore(kv repository.KV, analyzer *calibration.Analyzer, events EventPublisher, log *slog.Logger) *ReviewStore {
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewStore{
		kv:       kv,
		analyzer: analyzer,
		events:   events,
		log:      log.With("component", "review-store"),
		now:      time.Now,
		reviews:  make(map[model.FilmID]model.Review),
	}
}

// Load replaces the in-memory state with what the backend holds.  Corrupt
// JSON is logged and treated as an empty collection; only backend failures
// are returned.  The distribution is always recomputed from the reviews.
func (s *ReviewStore) Load(ctx context.Context) error {
	reviews := make(map[model.FilmID]model.Review)

	raw, err := s.kv.Get(ctx, ReviewsKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load reviews: %w", err)
	default:
		var stored map[model.FilmID]model.Review
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.log.Warn("stored reviews are not valid JSON; starting empty", "err", err)
		} else {
			for id, r := range stored {
				if r.FilmID == "" {
					r.FilmID = id
				}
				reviews[id] = r
			}
		}
	}

	dist := calibration.Compute(values(reviews))

	raw, err = s.kv.Get(ctx, CalibrationKey)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load calibration: %w", err)
	default:
		var stored calibration.Distribution
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.log.Warn("stored calibration is not valid JSON; recomputed", "err", err)
		} else if stored != dist {
			s.log.Info("stored calibration disagrees with reviews; recomputed",
				"stored_total", stored.Total, "total", dist.Total)
		}
	}

	s.mu.Lock()
	s.reviews = reviews
	s.dist = dist
	s.mu.Unlock()

	s.log.Info("reviews loaded", "count", len(reviews), "scores", dist.Total)
	return nil
}

// SaveReview stores a review for filmID, replacing any previous one.  The
// review always gets a fresh CreatedAt.  Scores and text are expected to be
// validated by the caller.
func (s *ReviewStore) SaveReview(ctx context.Context, filmID model.FilmID, film *model.Film, scores model.Scores, text string) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := model.Review{
		FilmID:    filmID,
		Film:      film,
		Scores:    scores.Clone(),
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	next := s.snapshot()
	next[filmID] = r
	if err := s.commit(ctx, next); err != nil {
		return model.Review{}, err
	}
	s.publish(newEvent(queue.KindSaved, r, r.CreatedAt))
	return r, nil
}

// GetReview looks up the review for filmID.
func (s *ReviewStore) GetReview(filmID model.FilmID) (model.Review, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[filmID]
	return r, ok
}

// AllReviews returns every review, most recent first.  Reviews created at
// the same instant are ordered by film id.
func (s *ReviewStore) AllReviews() []model.Review {
	s.mu.RLock()
	out := values(s.reviews)
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].FilmID < out[j].FilmID
	})
	return out
}

// Len reports how many films have a review.
func (s *ReviewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}

// DeleteReview removes the review for filmID.  Deleting an unknown id does
// nothing and writes nothing.
func (s *ReviewStore) DeleteReview(ctx context.Context, filmID model.FilmID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[filmID]
	if !ok {
		return nil
	}
	next := s.snapshot()
	delete(next, filmID)
	if err := s.commit(ctx, next); err != nil {
		return err
	}
	s.publish(newEvent(queue.KindDeleted, r, s.now()))
	return nil
}

// LoadSeedData merges reviews into the collection, skipping any film that
// already has a review so seeding never overwrites user work.  Seed reviews
// keep their CreatedAt; a zero value is stamped with the current time.  It
// returns how many reviews were added.
func (s *ReviewStore) LoadSeedData(ctx context.Context, reviews []model.Review) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snapshot()
	var added []model.Review
	for _, r := range reviews {
		if r.FilmID == "" {
			continue
		}
		if _, exists := next[r.FilmID]; exists {
			continue
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = s.now().UTC()
		}
		r.Scores = r.Scores.Clone()
		next[r.FilmID] = r
		added = append(added, r)
	}
	if len(added) == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	for _, r := range added {
		s.publish(newEvent(queue.KindSeeded, r, s.now()))
	}
	s.log.Info("seed data loaded", "added", len(added), "skipped", len(reviews)-len(added))
	return len(added), nil
}

// Distribution returns the pooled score distribution.
func (s *ReviewStore) Distribution() calibration.Distribution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dist
}

func (s *ReviewStore) Percentages() map[int]float64 {
	return calibration.Percentages(s.Distribution())
}

func (s *ReviewStore) Advisory() calibration.Advisory {
	return s.analyzer.Advisory(s.Distribution())
}

// Report returns the full calibration breakdown for the current reviews.
func (s *ReviewStore) Report() calibration.Report {
	return s.analyzer.Report(s.Distribution())
}

// Benchmarks computes peer-group modes for film.
func (s *ReviewStore) Benchmarks(film *model.Film) benchmark.Result {
	return benchmark.For(s.AllReviews(), film)
}

// FilterReviews returns reviews matching language and sharing any of
// genreIDs, most recent first.  Empty arguments match everything.
func (s *ReviewStore) FilterReviews(language string, genreIDs []int) []model.Review {
	return benchmark.Filter(s.AllReviews(), language, genreIDs)
}

// DimensionInsight summarises how dim is used across all reviews.
func (s *ReviewStore) DimensionInsight(dim model.Dimension) insight.Insight {
	return insight.ForDimension(s.AllReviews(), dim)
}

// Wait blocks until in-flight event publishes finish.
func (s *ReviewStore) Wait() {
	s.pending.Wait()
}

// snapshot copies the collection so a failed write leaves state untouched.
// Callers hold mu.
func (s *ReviewStore) snapshot() map[model.FilmID]model.Review {
	next := make(map[model.FilmID]model.Review, len(s.reviews)+1)
	for k, v := range s.reviews {
		next[k] = v
	}
	return next
}

// commit persists next and its distribution in one backend call, then
// installs them.  Callers hold mu.
func (s *ReviewStore) commit(ctx context.Context, next map[model.FilmID]model.Review) error {
	dist := calibration.Compute(values(next))

	reviewsJSON, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode reviews: %w", err)
	}
	distJSON, err := json.Marshal(dist)
	if err != nil {
		return fmt.Errorf("encode calibration: %w", err)
	}
	if err := s.kv.Put(ctx,
		repository.Entry{Key: ReviewsKey, Value: reviewsJSON},
		repository.Entry{Key: CalibrationKey, Value: distJSON},
	); err != nil {
		return fmt.Errorf("persist reviews: %w", err)
	}

	s.reviews = next
	s.dist = dist
	return nil
}

func (s *ReviewStore) publish(ev queue.ReviewEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Debug("review event not published", "kind", ev.Kind, "film", ev.FilmID, "err", err)
		}
	}()
}

func values(m map[model.FilmID]model.Review) []model.Review {
	out := make([]model.Review, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}
