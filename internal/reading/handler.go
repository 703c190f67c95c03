package reading

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cozyclip/backend/internal/gamification"
	"github.com/cozyclip/backend/internal/middleware"
	"github.com/cozyclip/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.BookID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "book_id is required"})
		return
	}
	if req.Total <= 0 || req.Correct < 0 || req.Correct > req.Total {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "correct must be between 0 and total"})
		return
	}

	resp, err := h.service.SubmitQuiz(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RecordChapter(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.ChapterEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.BookID == "" || req.Chapter == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "book_id and chapter are required"})
		return
	}

	resp, err := h.service.RecordChapter(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteStory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.BookID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "book_id is required"})
		return
	}

	resp, err := h.service.CompleteStory(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var le *gamification.LedgerError
	if errors.As(err, &le) {
		switch le.Code {
		case gamification.CodeUnauthorized:
			writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: le.Message})
			return
		case gamification.CodeValidation:
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: le.Message})
			return
		case gamification.CodeStoreUnavailable, gamification.CodeTransactionConflict:
			writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Service temporarily unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
