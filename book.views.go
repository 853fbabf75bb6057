package main

import (
	"sync"
	"time"
)

// ShelfSnapshot is the last rendered state of the shelf.
type ShelfSnapshot struct {
	Incomplete []Book    `json:"incomplete"`
	Complete   []Book    `json:"complete"`
	RenderedAt time.Time `json:"renderedAt"`
}

// ShelfView keeps what was last drawn into the incomplete and complete lists.
type ShelfView struct {
	clock      Clocker
	mu         sync.RWMutex
	incomplete []Book
	complete   []Book
	rendered   time.Time
}

// NewShelfView provides an empty view.
func NewShelfView(clock Clocker) *ShelfView {
	return &ShelfView{clock: clock, incomplete: []Book{}, complete: []Book{}}
}

// RenderIncomplete is the renderer of the unfinished books list.
func (v *ShelfView) RenderIncomplete(books []Book) {
	v.mu.Lock()
	v.incomplete = books
	v.rendered = v.clock.Now()
	v.mu.Unlock()
}

// RenderComplete is the renderer of the finished books list.
func (v *ShelfView) RenderComplete(books []Book) {
	v.mu.Lock()
	v.complete = books
	v.rendered = v.clock.Now()
	v.mu.Unlock()
}

// Snapshot returns the currently displayed lists.
func (v *ShelfView) Snapshot() ShelfSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ShelfSnapshot{
		Incomplete: v.incomplete,
		Complete:   v.complete,
		RenderedAt: v.rendered,
	}
}
