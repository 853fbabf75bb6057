package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	LoadFunc func(ctx context.Context) ([]Book, error)
	SaveFunc func(ctx context.Context, books []Book) error
}

// Load mocks the behavior of reading the collection by the storage.
func (m *MockBookStorage) Load(ctx context.Context) ([]Book, error) {
	return m.LoadFunc(ctx)
}

// Save mocks the behavior of writing the collection by the storage.
func (m *MockBookStorage) Save(ctx context.Context, books []Book) error {
	return m.SaveFunc(ctx, books)
}

// MockSlot implements a fake Slot with configurable failures.
type MockSlot struct {
	mu     sync.Mutex
	Values map[string]string
	GetErr error
	SetErr error
	Sets   int
}

// NewMockSlot returns a mocked slot holding the given values.
func NewMockSlot(values map[string]string) *MockSlot {
	if values == nil {
		values = make(map[string]string)
	}
	return &MockSlot{Values: values}
}

func (ms *MockSlot) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.GetErr != nil {
		return "", false, ms.GetErr
	}
	v, ok := ms.Values[key]
	return v, ok, nil
}

func (ms *MockSlot) Set(_ context.Context, key string, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.Sets++
	if ms.SetErr != nil {
		return ms.SetErr
	}
	ms.Values[key] = value
	return nil
}

func (ms *MockSlot) Close() error {
	return nil
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, ev ChangeEvent) error
	PopFunc  func(ctx context.Context, qids ...string) (string, ChangeEvent, error)
}

func (mq *MockQueuer) Push(ctx context.Context, qid string, ev ChangeEvent) error {
	return mq.PushFunc(ctx, qid, ev)
}

func (mq *MockQueuer) Pop(ctx context.Context, qids ...string) (string, ChangeEvent, error) {
	return mq.PopFunc(ctx, qids...)
}

// MockPublisher records every published change event.
type MockPublisher struct {
	mu     sync.Mutex
	Events []ChangeEvent
	OnPub  func(ev ChangeEvent)
}

func (mp *MockPublisher) Publish(ev ChangeEvent) {
	mp.mu.Lock()
	mp.Events = append(mp.Events, ev)
	mp.mu.Unlock()
	if mp.OnPub != nil {
		mp.OnPub(ev)
	}
}

// Published returns a copy of the recorded events.
func (mp *MockPublisher) Published() []ChangeEvent {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return append([]ChangeEvent(nil), mp.Events...)
}

// testShelf bundles a fully wired in-memory shelf.
type testShelf struct {
	slot    *MockSlot
	changes *MockPublisher
	repo    *BookRepository
	view    *ShelfView
	render  *RenderCoordinator
	service *ShelfService
	api     *APIHandler
}

// newTestShelf builds the shelf on top of a mocked slot and clock.
func newTestShelf(slot *MockSlot) *testShelf {
	if slot == nil {
		slot = NewMockSlot(nil)
	}
	clock := NewMockClocker()
	changes := &MockPublisher{}
	repo := NewBookRepository(zap.NewNop(), NewBookIDGenerator(clock), NewSlotBookStorage(zap.NewNop(), slot, ""), changes)
	view := NewShelfView(clock)
	render := NewRenderCoordinator(zap.NewNop(), repo, view.RenderIncomplete, view.RenderComplete)
	service := NewShelfService(zap.NewNop(), repo, render, view)
	api := NewAPIHandler(
		zap.NewNop(),
		&Config{OpsEndpointsEnable: true},
		&Statistics{started: clock.Now()},
		clock,
		NewMockUIDHandler("abc", false),
		service,
	)
	return &testShelf{
		slot:    slot,
		changes: changes,
		repo:    repo,
		view:    view,
		render:  render,
		service: service,
		api:     api,
	}
}
