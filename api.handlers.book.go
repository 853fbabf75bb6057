package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// sendError logs the failure then writes the error envelope.
func (api *APIHandler) sendError(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}, err error) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	logger := api.GetLoggerFromContext(r.Context())
	logger.Error(message, zap.String("request.id", requestID), zap.Error(err))
	errResp := NewAPIError(requestID, status, message, data)
	if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
		logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// send writes the success envelope.
func (api *APIHandler) send(w http.ResponseWriter, r *http.Request, status int, message string, total *int, data interface{}) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	resp := GenericResponse(requestID, status, message, total, data)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.GetLoggerFromContext(r.Context()).Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// bookID reads the book id path parameter or answers with 400.
func (api *APIHandler) bookID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (int64, bool) {
	raw := ps.ByName("id")
	id, ok := ParseBookID(raw)
	if !ok {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", raw, errors.New("invalid book id"))
	}
	return id, ok
}

// CreateBook handles the book form submission.
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	input := BookInput{}
	if err := DecodeBookInput(r, &input); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", input, err)
		return
	}

	if err := ValidateBookInput(&input); err != nil {
		api.sendError(w, r, http.StatusBadRequest, "failed to create the book", err.Error(), err)
		return
	}

	book, err := api.shelf.Add(r.Context(), input)
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to save the book", book, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to create book", zap.Int64("book.id", book.ID))
	api.send(w, r, http.StatusCreated, "Book created successfully.", nil, book)
}

// GetAllBooks lists every book in insertion order.
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	books := api.shelf.GetAll(r.Context())
	total := len(books)
	api.send(w, r, http.StatusOK, "All books fetched successfully.", &total, books)
}

func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := api.bookID(w, r, ps)
	if !ok {
		return
	}
	book, err := api.shelf.GetOne(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData, err)
		return
	}
	api.send(w, r, http.StatusOK, "Book fetched successfully.", nil, book)
}

// ToggleBook flips the reading status of a book.
func (api *APIHandler) ToggleBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := api.bookID(w, r, ps)
	if !ok {
		return
	}
	book, err := api.shelf.Toggle(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData, err)
		return
	}
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to save the book status", book, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to toggle book", zap.Int64("book.id", id), zap.Bool("book.complete", book.IsComplete))
	api.send(w, r, http.StatusOK, "Book status updated successfully.", nil, book)
}

func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := api.bookID(w, r, ps)
	if !ok {
		return
	}
	book, err := api.shelf.Delete(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData, err)
		return
	}
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to delete the book", book, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to delete book", zap.Int64("book.id", id))
	api.send(w, r, http.StatusOK, "Book deleted successfully.", nil, book)
}

// EditBook removes the book and moves its values into the form draft.
// Submitting the draft creates a new book with a new id.
func (api *APIHandler) EditBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := api.bookID(w, r, ps)
	if !ok {
		return
	}
	draft, err := api.shelf.Edit(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		api.sendError(w, r, http.StatusNotFound, "book does not exist", EmptyData, err)
		return
	}
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to edit the book", draft, err)
		return
	}
	api.GetLoggerFromContext(r.Context()).Info("success to move book into form", zap.Int64("book.id", id))
	api.send(w, r, http.StatusOK, "Book moved into the form. Submit it to save.", nil, draft)
}

// GetDraft serves the values currently waiting in the book form.
func (api *APIHandler) GetDraft(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	draft, ok := api.shelf.Draft(r.Context())
	if !ok {
		api.send(w, r, http.StatusOK, "Book form is empty.", nil, EmptyData)
		return
	}
	api.send(w, r, http.StatusOK, "Book form draft fetched successfully.", nil, draft)
}

// SearchBooks renders then returns the books whose title contains the
// `title` query value. An empty value matches every book.
func (api *APIHandler) SearchBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	term := r.URL.Query().Get("title")
	books := api.shelf.Search(r.Context(), term)
	total := len(books)
	api.send(w, r, http.StatusOK, "Books searched successfully.", &total, books)
}

// GetShelf serves the last rendered incomplete and complete lists.
func (api *APIHandler) GetShelf(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	api.send(w, r, http.StatusOK, "Shelf fetched successfully.", nil, api.shelf.Shelf(r.Context()))
}
