// Package db implements the local persistent store for GitHub users: a
// single keyed table with full-replace write semantics and change
// notification for live queries.
package db

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github-users-service/internal/domain/user"
	apperrors "github-users-service/pkg/errors"
	"github-users-service/pkg/stream"
)

// Store is the gorm-backed local store. Each operation is one transaction;
// concurrent writers are serialized by the database, and readers never see a
// half-applied write.
type Store struct {
	db      *gorm.DB
	log     *zap.Logger
	changes *stream.Value[[]user.User]
}

// NewStore creates a Store over an already-migrated database.
func NewStore(db *gorm.DB, log *zap.Logger) (*Store, error) {
	s := &Store{db: db, log: log}

	snapshot, err := s.GetAll(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read initial snapshot: %w", err)
	}
	s.changes = stream.NewValue(snapshot)

	return s, nil
}

// Upsert inserts or fully replaces a user by id. Idempotent.
func (s *Store) Upsert(ctx context.Context, u user.User) error {
	model := toSchema(u)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model).Error
	if err != nil {
		s.log.Error("failed to upsert user", zap.Int64("id", u.ID), zap.Error(err))
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	s.notify(ctx)
	return nil
}

// UpsertAll inserts or fully replaces a batch of users by id in one
// transaction. A no-op for an empty batch.
func (s *Store) UpsertAll(ctx context.Context, users []user.User) error {
	if len(users) == 0 {
		return nil
	}

	models := make([]UserSchema, len(users))
	for i, u := range users {
		models[i] = toSchema(u)
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&models).Error
	if err != nil {
		s.log.Error("failed to upsert users", zap.Int("count", len(users)), zap.Error(err))
		return fmt.Errorf("failed to upsert users: %w", err)
	}

	s.notify(ctx)
	return nil
}

// ReplaceAll atomically clears the table and inserts the given users. This is
// the refresh path: readers observe either the old set or the new set, never
// the empty state in between.
func (s *Store) ReplaceAll(ctx context.Context, users []user.User) error {
	models := make([]UserSchema, len(users))
	for i, u := range users {
		models[i] = toSchema(u)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&UserSchema{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		s.log.Error("failed to replace users", zap.Int("count", len(users)), zap.Error(err))
		return fmt.Errorf("failed to replace users: %w", err)
	}

	s.notify(ctx)
	return nil
}

// GetByID retrieves a user by their remote-assigned id.
func (s *Store) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := s.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", id))
		}
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := toDomain(model)
	return &u, nil
}

// GetAll returns every cached user ordered by id, so repeated calls without
// intervening writes return the same sequence.
func (s *Store) GetAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := s.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = toDomain(m)
	}
	return users, nil
}

// Clear removes all records. Used only as the first step of a refresh.
func (s *Store) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&UserSchema{}).Error
	if err != nil {
		s.log.Error("failed to clear users", zap.Error(err))
		return fmt.Errorf("failed to clear users: %w", err)
	}

	s.notify(ctx)
	return nil
}

// Observe returns a channel delivering the current full snapshot, then a
// fresh snapshot after every committed mutation, until ctx is canceled.
func (s *Store) Observe(ctx context.Context) <-chan []user.User {
	return s.changes.Subscribe(ctx)
}

// notify publishes a fresh snapshot to observers after a committed write.
// The snapshot read must survive caller cancellation, same as the write did.
func (s *Store) notify(ctx context.Context) {
	snapshot, err := s.GetAll(context.WithoutCancel(ctx))
	if err != nil {
		s.log.Warn("failed to read snapshot for observers", zap.Error(err))
		return
	}
	s.changes.Set(snapshot)
}
