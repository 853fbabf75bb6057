package main

import (
	"sync"

	"go.uber.org/zap"
)

// ViewRenderer draws an ordered list of books.
type ViewRenderer func(books []Book)

// BookLister gives read access to the full collection.
type BookLister interface {
	List() []Book
}

// Ensure *RenderCoordinator can listen to change notifications.
var _ ChangePublisher = (*RenderCoordinator)(nil)

// RenderCoordinator splits books by reading status and hands each
// group to its view. Render passes never overlap.
type RenderCoordinator struct {
	logger     *zap.Logger
	books      BookLister
	incomplete ViewRenderer
	complete   ViewRenderer
	mu         sync.Mutex
}

// NewRenderCoordinator provides a coordinator drawing into the given views.
func NewRenderCoordinator(logger *zap.Logger, books BookLister, incomplete, complete ViewRenderer) *RenderCoordinator {
	return &RenderCoordinator{
		logger:     logger,
		books:      books,
		incomplete: incomplete,
		complete:   complete,
	}
}

// Partition splits books into complete and incomplete groups, keeping order.
func Partition(books []Book) (complete, incomplete []Book) {
	complete, incomplete = []Book{}, []Book{}
	for _, b := range books {
		if b.IsComplete {
			complete = append(complete, b)
		} else {
			incomplete = append(incomplete, b)
		}
	}
	return complete, incomplete
}

// Render replaces both views with the given books.
func (rc *RenderCoordinator) Render(books []Book) {
	complete, incomplete := Partition(books)
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.incomplete(incomplete)
	rc.complete(complete)
}

// RenderAll renders the full collection.
func (rc *RenderCoordinator) RenderAll() {
	rc.Render(rc.books.List())
}

// Publish renders the full collection. It makes the coordinator a
// synchronous change listener, so the views are up to date once the
// mutation which triggered ev returns.
func (rc *RenderCoordinator) Publish(ev ChangeEvent) {
	rc.logger.Debug("render: collection changed", zap.String("change.op", string(ev.Op)), zap.Int64("book.id", ev.BookID))
	rc.RenderAll()
}
