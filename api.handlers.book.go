package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// respondOperationError maps a service failure to its HTTP rendering:
// validation and duplicate-isbn land on 400, an absent record on 404
// and everything else on 500 with the detail hidden in production.
func (api *APIHandler) respondOperationError(w http.ResponseWriter, r *http.Request, action string, err error) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	api.logger.Error("failed to "+action,
		zap.String("request.id", requestID),
		zap.Error(err),
	)

	var verr *ValidationError
	var status int
	var resp *APIResponse
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp = FailureResponse("failed to "+action, verr.Error())
	case errors.Is(err, ErrDuplicateISBN):
		status = http.StatusBadRequest
		resp = FailureResponse("failed to "+action, ErrDuplicateISBN.Error())
	case errors.Is(err, ErrBookNotFound):
		status = http.StatusNotFound
		resp = FailureResponse("book does not exist", ErrBookNotFound.Error())
	default:
		status = http.StatusInternalServerError
		detail := "internal server error"
		if !api.config.IsProduction {
			detail = err.Error()
		}
		resp = FailureResponse("failed to "+action, detail)
	}

	if err := WriteResponse(w, status, resp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) sendBook(w http.ResponseWriter, r *http.Request, status int, message string, book Book) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := WriteResponse(w, status, SuccessResponse(message, book)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) sendBooks(w http.ResponseWriter, r *http.Request, message string, books []Book) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	if err := WriteResponse(w, http.StatusOK, ListResponse(message, books)); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	in := BookInput{}
	if err := DecodeBookRequestBody(r, &in); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		resp := FailureResponse("failed to create the book", "request body is not valid json")
		if err := WriteResponse(w, http.StatusBadRequest, resp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookService.Create(r.Context(), &in)
	if err != nil {
		api.respondOperationError(w, r, "create the book", err)
		return
	}
	api.logger.Info("success to create book", zap.String("book.id", book.ID.Hex()), zap.String("request.id", requestID))
	api.sendBook(w, r, http.StatusCreated, "Book created successfully.", book)
}

func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books, err := api.bookService.GetAll(r.Context())
	if err != nil {
		api.respondOperationError(w, r, "get all books", err)
		return
	}
	api.logger.Info("success to get all books", zap.Int("books.count", len(books)), zap.String("request.id", requestID))
	api.sendBooks(w, r, "All books fetched successfully.", books)
}

func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := chi.URLParam(r, "id")
	book, err := api.bookService.GetOne(r.Context(), id)
	if err != nil {
		api.respondOperationError(w, r, "get the book", err)
		return
	}
	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.sendBook(w, r, http.StatusOK, "Book fetched successfully.", book)
}

func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := chi.URLParam(r, "id")
	in := BookInput{}
	if err := DecodeBookRequestBody(r, &in); err != nil {
		api.logger.Error("failed to update book", zap.String("request.id", requestID), zap.Error(err))
		resp := FailureResponse("failed to update the book", "request body is not valid json")
		if err := WriteResponse(w, http.StatusBadRequest, resp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.bookService.Update(r.Context(), id, &in)
	if err != nil {
		api.respondOperationError(w, r, "update the book", err)
		return
	}
	api.logger.Info("success to update book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.sendBook(w, r, http.StatusOK, "Book updated successfully.", book)
}

func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	id := chi.URLParam(r, "id")
	book, err := api.bookService.Delete(r.Context(), id)
	if err != nil {
		api.respondOperationError(w, r, "delete the book", err)
		return
	}
	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.sendBook(w, r, http.StatusOK, "Book deleted successfully.", book)
}

func (api *APIHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	text := r.URL.Query().Get("q")
	if text == "" {
		api.logger.Error("search query parameter is missing", zap.String("request.id", requestID))
		resp := FailureResponse("failed to search books", "query parameter q is required")
		if err := WriteResponse(w, http.StatusBadRequest, resp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	books, err := api.bookService.Search(r.Context(), text)
	if err != nil {
		api.respondOperationError(w, r, "search books", err)
		return
	}
	api.logger.Info("success to search books", zap.String("search.text", text), zap.Int("books.count", len(books)), zap.String("request.id", requestID))
	api.sendBooks(w, r, "Books search completed successfully.", books)
}

func (api *APIHandler) GetBooksByGenre(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	genre := chi.URLParam(r, "genre")
	books, err := api.bookService.GetByGenre(r.Context(), genre)
	if err != nil {
		api.respondOperationError(w, r, "get books by genre", err)
		return
	}
	api.logger.Info("success to get books by genre", zap.String("book.genre", genre), zap.Int("books.count", len(books)), zap.String("request.id", requestID))
	api.sendBooks(w, r, "Books filtered by genre successfully.", books)
}

func (api *APIHandler) GetInStockBooks(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	books, err := api.bookService.GetInStock(r.Context())
	if err != nil {
		api.respondOperationError(w, r, "get in-stock books", err)
		return
	}
	api.logger.Info("success to get in-stock books", zap.Int("books.count", len(books)), zap.String("request.id", requestID))
	api.sendBooks(w, r, "In-stock books fetched successfully.", books)
}
