package main

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// BookRepository owns the ordered in-memory book collection. Each
// mutation saves the whole collection then publishes one change event.
type BookRepository struct {
	logger  *zap.Logger
	ids     IDGenerator
	storage BookStorage
	changes ChangePublisher

	mu    sync.Mutex
	books []Book
}

// NewBookRepository provides an empty repository. Call Load to populate it.
func NewBookRepository(logger *zap.Logger, ids IDGenerator, storage BookStorage, changes ChangePublisher) *BookRepository {
	return &BookRepository{
		logger:  logger,
		ids:     ids,
		storage: storage,
		changes: changes,
		books:   []Book{},
	}
}

// Load replaces the collection with the persisted one.
func (r *BookRepository) Load(ctx context.Context) error {
	books, err := r.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to load books: %w", err)
	}
	r.mu.Lock()
	r.books = books
	for _, b := range books {
		r.ids.Observe(b.ID)
	}
	r.mu.Unlock()
	r.logger.Info("repository: books loaded", zap.Int("books.count", len(books)))
	r.changes.Publish(ChangeEvent{Op: ChangeLoad})
	return nil
}

// Add appends a new book. The book is always added in memory; the
// returned error only reports a failure to persist the collection.
func (r *BookRepository) Add(ctx context.Context, title, author string, year Year, isComplete bool) (Book, error) {
	r.mu.Lock()
	book := Book{
		ID:         r.ids.Next(),
		Title:      title,
		Author:     author,
		Year:       year,
		IsComplete: isComplete,
	}
	r.books = append(r.books, book)
	err := r.save(ctx)
	r.mu.Unlock()

	r.changes.Publish(ChangeEvent{Op: ChangeAdd, BookID: book.ID})
	return book, err
}

// FindByID returns the first book with the given id.
func (r *BookRepository) FindByID(id int64) (Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.books[i], true
	}
	return Book{}, false
}

// ToggleComplete flips the reading status of a book and returns the book
// as toggled. Unknown ids are ignored and reported through the boolean only.
func (r *BookRepository) ToggleComplete(ctx context.Context, id int64) (Book, bool, error) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return Book{}, false, nil
	}
	r.books[i].IsComplete = !r.books[i].IsComplete
	book := r.books[i]
	err := r.save(ctx)
	r.mu.Unlock()

	r.changes.Publish(ChangeEvent{Op: ChangeToggle, BookID: id})
	return book, true, err
}

// Remove deletes a book and returns it. Unknown ids are ignored and
// reported through the boolean only.
func (r *BookRepository) Remove(ctx context.Context, id int64) (Book, bool, error) {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return Book{}, false, nil
	}
	book := r.books[i]
	r.books = append(r.books[:i], r.books[i+1:]...)
	err := r.save(ctx)
	r.mu.Unlock()

	r.changes.Publish(ChangeEvent{Op: ChangeRemove, BookID: id})
	return book, true, err
}

// List returns a copy of the collection in insertion order.
func (r *BookRepository) List() []Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	books := make([]Book, len(r.books))
	copy(books, r.books)
	return books
}

// indexOf must be called with the lock held.
func (r *BookRepository) indexOf(id int64) int {
	for i := range r.books {
		if r.books[i].ID == id {
			return i
		}
	}
	return -1
}

// save must be called with the lock held.
func (r *BookRepository) save(ctx context.Context) error {
	if err := r.storage.Save(ctx, r.books); err != nil {
		r.logger.Error("repository: failed to persist books", zap.Int("books.count", len(r.books)), zap.Error(err))
		return fmt.Errorf("repository: failed to persist books: %w", err)
	}
	return nil
}
