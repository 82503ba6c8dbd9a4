package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Asonyu-Ng/career-profile-pal/internal/domain/cv"
	"github.com/Asonyu-Ng/career-profile-pal/internal/observability"
	"github.com/Asonyu-Ng/career-profile-pal/internal/storage"
)

// cvTableKey holds the whole CV table for all users as one serialized slice.
// Per-user partitioning happens at query time, not at the key level.
const cvTableKey = "user_cvs"

type UserValidator interface {
	IsRegisteredUserID(ctx context.Context, id string) bool
}

// Store is the CV record store. Every failure it meets degrades to a no-op or
// an empty result plus a diagnostic; callers never see a fault from here.
type Store struct {
	blobs   storage.Store
	users   UserValidator
	log     *slog.Logger
	metrics *observability.Metrics
}

func New(blobs storage.Store, users UserValidator, log *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		blobs:   blobs,
		users:   users,
		log:     log,
		metrics: metrics,
	}
}

// Save upserts a record: any record with the same id is replaced, the new one
// is appended, and the whole table is written back. A record whose owner does
// not validate against the registry is rejected without touching the table.
// The returned bool reports whether the table was written.
func (s *Store) Save(ctx context.Context, record cv.CV) bool {
	if !s.users.IsRegisteredUserID(ctx, record.UserID) {
		s.log.Warn("rejecting cv save for unregistered user", "cvId", record.ID, "userId", record.UserID)
		s.metrics.SavesTotal.WithLabelValues("rejected").Inc()
		return false
	}

	if err := cv.Validate(record); err != nil {
		s.log.Warn("rejecting malformed cv", "cvId", record.ID, "err", err)
		s.metrics.SavesTotal.WithLabelValues("rejected").Inc()
		return false
	}

	table := s.All(ctx)

	next := make([]cv.CV, 0, len(table)+1)
	for _, existing := range table {
		if existing.ID == record.ID {
			continue
		}
		next = append(next, existing)
	}
	next = append(next, record)

	if !s.writeTable(ctx, next) {
		s.metrics.SavesTotal.WithLabelValues("error").Inc()
		return false
	}

	s.metrics.SavesTotal.WithLabelValues("saved").Inc()
	s.log.Debug("cv saved", "cvId", record.ID, "userId", record.UserID)

	return true
}

// All returns the table in storage order. Absent and corrupt blobs both read
// as an empty table.
func (s *Store) All(ctx context.Context) []cv.CV {
	blob, err := s.blobs.Get(ctx, cvTableKey)

	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Error("reading cv table", "err", err)
			s.metrics.StorageErrors.WithLabelValues("read").Inc()
		}

		return []cv.CV{}
	}

	var table []cv.CV

	if err := json.Unmarshal(blob, &table); err != nil {
		s.log.Error("cv table blob is corrupt, treating as empty", "err", err)
		s.metrics.StorageErrors.WithLabelValues("parse").Inc()
		return []cv.CV{}
	}

	s.metrics.RecordsReturned.Add(float64(len(table)))

	return table
}

// ByID does a linear scan of the table.
func (s *Store) ByID(ctx context.Context, id string) (cv.CV, bool) {
	for _, record := range s.All(ctx) {
		if record.ID == id {
			return record, true
		}
	}

	return cv.CV{}, false
}

// Delete filters the record out of the table and writes the table back.
func (s *Store) Delete(ctx context.Context, id string) {
	table := s.All(ctx)

	next := make([]cv.CV, 0, len(table))
	for _, record := range table {
		if record.ID == id {
			continue
		}
		next = append(next, record)
	}

	if s.writeTable(ctx, next) {
		s.metrics.DeletesTotal.Inc()
	}
}

// AllForUser filters the table by owner, then re-validates each surviving
// record's owner against the registry. Carrying the right userId tag is
// necessary but not sufficient: the owner must still validate now, which
// drops records orphaned by registry changes after they were written.
func (s *Store) AllForUser(ctx context.Context, userID string) []cv.CV {
	owned := []cv.CV{}

	for _, record := range s.All(ctx) {
		if record.UserID != userID {
			continue
		}

		if !s.users.IsRegisteredUserID(ctx, record.UserID) {
			s.log.Warn("dropping cv with unvalidated owner", "cvId", record.ID, "userId", record.UserID)
			continue
		}

		owned = append(owned, record)
	}

	return owned
}

func (s *Store) writeTable(ctx context.Context, table []cv.CV) bool {
	blob, err := json.Marshal(table)

	if err != nil {
		s.log.Error("serializing cv table", "err", err)
		s.metrics.StorageErrors.WithLabelValues("serialize").Inc()
		return false
	}

	if err := s.blobs.Set(ctx, cvTableKey, blob); err != nil {
		s.log.Error("writing cv table", "err", err)
		s.metrics.StorageErrors.WithLabelValues("write").Inc()
		return false
	}

	return true
}
