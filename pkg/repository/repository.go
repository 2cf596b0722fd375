package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository is a minimal generic store over a gorm-mapped model.
type Repository[T any] interface {
	Insert(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, conds ...any) error
	FindOne(ctx context.Context, conds ...any) (*T, error)
	Find(ctx context.Context, conds ...any) ([]T, error)
}

type store[T any] struct {
	db *gorm.DB
}

// ProvideStore builds a Repository bound to the given connection.
func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) Insert(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) Update(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Save(record).Error
}

func (s *store[T]) Delete(ctx context.Context, conds ...any) error {
	var model T
	return s.db.WithContext(ctx).Delete(&model, conds...).Error
}

// FindOne returns nil without error when no row matches.
func (s *store[T]) FindOne(ctx context.Context, conds ...any) (*T, error) {
	var record T
	err := s.db.WithContext(ctx).First(&record, conds...).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Find(ctx context.Context, conds ...any) ([]T, error) {
	var records []T
	err := s.db.WithContext(ctx).Find(&records, conds...).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
