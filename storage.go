package main

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// DefaultStorageKey is the slot key holding the serialized collection.
const DefaultStorageKey = "BOOKSHELF_APPS"

// Slot is a string-valued key-value persistence boundary.
type Slot interface {
	// Get returns the value stored under key. The boolean is false
	// when nothing was stored yet.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Close() error
}

// BookStorage loads and saves the whole book collection.
type BookStorage interface {
	Load(ctx context.Context) ([]Book, error)
	Save(ctx context.Context, books []Book) error
}

type slotBookStorage struct {
	logger *zap.Logger
	slot   Slot
	key    string
}

// NewSlotBookStorage provides a book storage which keeps the collection
// as one JSON array under key inside the given slot.
func NewSlotBookStorage(logger *zap.Logger, slot Slot, key string) BookStorage {
	if key == "" {
		key = DefaultStorageKey
	}
	return &slotBookStorage{logger: logger, slot: slot, key: key}
}

// Load reads the persisted collection. A missing blob yields an empty
// collection, and so does a malformed one after a warning is logged.
func (s *slotBookStorage) Load(ctx context.Context) ([]Book, error) {
	blob, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to read %s: %w", s.key, err)
	}
	books := []Book{}
	if !ok {
		return books, nil
	}
	var data []Book
	if err = json.Unmarshal([]byte(blob), &data); err != nil {
		s.logger.Warn("storage: malformed collection ignored", zap.String("storage.key", s.key), zap.Error(err))
		return books, nil
	}
	if data == nil {
		return books, nil
	}
	return data, nil
}

// Save overwrites the persisted collection.
func (s *slotBookStorage) Save(ctx context.Context, books []Book) error {
	if books == nil {
		books = []Book{}
	}
	blob, err := json.Marshal(books)
	if err != nil {
		return err
	}
	if err = s.slot.Set(ctx, s.key, string(blob)); err != nil {
		return fmt.Errorf("storage: failed to write %s: %w", s.key, err)
	}
	return nil
}
