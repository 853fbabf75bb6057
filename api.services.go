package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type ShelfServiceProvider interface {
	Add(ctx context.Context, input BookInput) (Book, error)
	GetOne(ctx context.Context, id int64) (Book, error)
	GetAll(ctx context.Context) []Book
	Toggle(ctx context.Context, id int64) (Book, error)
	Delete(ctx context.Context, id int64) (Book, error)
	Edit(ctx context.Context, id int64) (BookDraft, error)
	Draft(ctx context.Context) (BookDraft, bool)
	Search(ctx context.Context, term string) []Book
	Shelf(ctx context.Context) ShelfSnapshot
}

// ShelfService wires the form and search submissions to the repository,
// the render coordinator and the form draft placeholder.
type ShelfService struct {
	logger   *zap.Logger
	repo     *BookRepository
	renderer *RenderCoordinator
	view     *ShelfView

	mu       sync.Mutex
	draft    BookDraft
	hasDraft bool
}

func NewShelfService(logger *zap.Logger, repo *BookRepository, renderer *RenderCoordinator, view *ShelfView) *ShelfService {
	return &ShelfService{
		logger:   logger,
		repo:     repo,
		renderer: renderer,
		view:     view,
	}
}

// Add creates a book from the submitted form values then resets the form.
func (s *ShelfService) Add(ctx context.Context, input BookInput) (Book, error) {
	year := ParseYear(string(input.Year))
	if !year.Valid {
		s.logger.Warn("service: book year is not a number", zap.String("book.year", string(input.Year)))
	}
	book, err := s.repo.Add(ctx, input.Title, input.Author, year, input.IsComplete)
	s.clearDraft()
	return book, err
}

func (s *ShelfService) GetOne(_ context.Context, id int64) (Book, error) {
	book, ok := s.repo.FindByID(id)
	if !ok {
		return book, ErrBookNotFound
	}
	return book, nil
}

func (s *ShelfService) GetAll(_ context.Context) []Book {
	return s.repo.List()
}

// Toggle flips the reading status and returns the updated book.
func (s *ShelfService) Toggle(ctx context.Context, id int64) (Book, error) {
	book, found, err := s.repo.ToggleComplete(ctx, id)
	if !found {
		return book, ErrBookNotFound
	}
	return book, err
}

// Delete removes a book and returns it.
func (s *ShelfService) Delete(ctx context.Context, id int64) (Book, error) {
	book, found, err := s.repo.Remove(ctx, id)
	if !found {
		return book, ErrBookNotFound
	}
	return book, err
}

// Edit does not update the book in place. It removes the book and prefills
// the form draft with its values, so that submitting the form again
// creates a new book with a new id.
func (s *ShelfService) Edit(ctx context.Context, id int64) (BookDraft, error) {
	book, found, err := s.repo.Remove(ctx, id)
	if !found {
		return BookDraft{}, ErrBookNotFound
	}
	draft := DraftFromBook(book)
	s.mu.Lock()
	s.draft, s.hasDraft = draft, true
	s.mu.Unlock()
	return draft, err
}

// Draft returns the values waiting in the form, if any.
func (s *ShelfService) Draft(_ context.Context) (BookDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft, s.hasDraft
}

// Search renders only the books matching term and returns them. The full
// shelf is drawn again on the next change notification.
func (s *ShelfService) Search(_ context.Context, term string) []Book {
	books := Search(s.repo.List(), term)
	s.renderer.Render(books)
	return books
}

func (s *ShelfService) Shelf(_ context.Context) ShelfSnapshot {
	return s.view.Snapshot()
}

func (s *ShelfService) clearDraft() {
	s.mu.Lock()
	s.draft, s.hasDraft = BookDraft{}, false
	s.mu.Unlock()
}
