package gamification

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cozyclip/backend/internal/middleware"
	"github.com/cozyclip/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ── Quests ──────────────────────────────────────────────

func (h *Handler) QuestEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.QuestEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.EventType == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "event_type is required"})
		return
	}

	coins, err := h.service.UpdateQuestProgress(r.Context(), userID, req.EventType,
		EventMeta{StoryID: req.StoryID, Chapter: req.Chapter})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.QuestEventResponse{CoinsEarned: coins})
}

func (h *Handler) QuestOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	entries, err := h.service.QuestOverview(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quests": entries})
}

// ── Shop ────────────────────────────────────────────────

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r.URL.Query())
	writeJSON(w, http.StatusOK, h.service.ListItems(page, limit))
}

func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ItemID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "item_id is required"})
		return
	}

	resp, err := h.service.RedeemItem(r.Context(), userID, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	page, limit := pageParams(r.URL.Query())
	resp, err := h.service.Transactions(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Books ───────────────────────────────────────────────

func (h *Handler) CompleteBook(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.AddCompletedBook(r.Context(), userID, req.BookID, req.Title); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// ── Rank & Streak ───────────────────────────────────────

func (h *Handler) Rank(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	rank, err := h.service.Rank(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rank)
}

func (h *Handler) Streak(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	streak, err := h.service.Streak(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

func (h *Handler) RecordSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.RecordSessionRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	var at time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		at = parsed
	}

	streak, err := h.service.RecordReadingSession(r.Context(), userID, at)
	if err != nil {
		writeError(w, err)
		return
	}

	// Session recorded is also a quest trigger. Quest failures must not
	// fail the session write, so they are logged and swallowed.
	if _, qerr := h.service.UpdateQuestProgress(r.Context(), userID, models.EventDailyReading, EventMeta{}); qerr != nil {
		log.Printf("[gamification] daily reading quest update failed for user %d: %v", userID, qerr)
	}

	writeJSON(w, http.StatusOK, streak)
}

// ── Helpers ─────────────────────────────────────────────

// writeError maps the ledger error taxonomy onto HTTP statuses. Store
// and conflict failures stay opaque to the client.
func writeError(w http.ResponseWriter, err error) {
	var le *LedgerError
	if !errors.As(err, &le) {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	switch le.Code {
	case CodeUnauthorized:
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: le.Message})
	case CodeValidation:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: le.Message})
	case CodeNotFound:
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: le.Message})
	case CodeAlreadyOwned, CodeInsufficientCoins:
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: le.Message})
	case CodeTransactionConflict, CodeStoreUnavailable:
		log.Printf("[gamification] store failure: %v", le)
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Service temporarily unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func pageParams(query url.Values) (page, limit int) {
	page = intQueryParam(query, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = intQueryParam(query, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
