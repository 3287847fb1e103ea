// Package api implements the admin JSON endpoints for the match registry
// and the channel catalog.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayoubalgboom-bot/brglive-website/logging"
	"github.com/ayoubalgboom-bot/brglive-website/registry"
)

// SuccessResponse is the body acknowledging a completed mutation
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// MatchesHandler handles /api/matches and everything below it
type MatchesHandler struct {
	store  *registry.Store
	logger *logging.Logger
	now    func() time.Time
}

// NewMatchesHandler creates a new handler for the matches API
func NewMatchesHandler(store *registry.Store, logger *logging.Logger) *MatchesHandler {
	return &MatchesHandler{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ServeHTTP routes match requests by path shape and method
func (h *MatchesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/matches")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method == http.MethodGet {
			h.handleGet(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if path == "shift" {
		if r.Method == http.MethodPost {
			h.handleShift(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		// /api/matches/{day}
		if r.Method == http.MethodPost {
			h.handleAdd(w, r, parts[0])
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	case 2:
		// /api/matches/{day}/{index}
		index, err := strconv.Atoi(parts[1])
		if err != nil {
			logging.WriteJSONError(w, h.logger, "Match not found", http.StatusNotFound, map[string]interface{}{
				"day":   parts[0],
				"index": parts[1],
			})
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.handleUpdate(w, r, parts[0], index)
		case http.MethodDelete:
			h.handleDelete(w, r, parts[0], index)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		logging.WriteJSONError(w, h.logger, "Not found", http.StatusNotFound, nil)
	}
}

// handleGet handles GET /api/matches. With ?derived=1 each entry's status
// is replaced by its time-derived display status.
func (h *MatchesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	data := h.store.Get()

	if v := r.URL.Query().Get("derived"); v == "1" || v == "true" {
		now := h.now()
		deriveBucket(data.Yesterday, now)
		deriveBucket(data.Today, now)
		deriveBucket(data.Tomorrow, now)
	}

	logging.WriteJSON(w, h.logger, http.StatusOK, data)
}

// deriveBucket rewrites each entry's status in place with its derived value.
func deriveBucket(entries []registry.Entry, now time.Time) {
	for i := range entries {
		entries[i].Status = registry.DeriveStatus(entries[i].Time, entries[i].Status, now)
	}
}

// handleShift handles POST /api/matches/shift
func (h *MatchesHandler) handleShift(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.Shift(); err != nil {
		logging.WriteJSONError(w, h.logger, "Failed to shift day", http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Day shifted successfully",
	})
}

// handleAdd handles POST /api/matches/{day}
func (h *MatchesHandler) handleAdd(w http.ResponseWriter, r *http.Request, day string) {
	var entry registry.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		logging.WriteJSONError(w, h.logger, "Invalid request body", http.StatusBadRequest, map[string]interface{}{
			"day":   day,
			"error": err.Error(),
		})
		return
	}

	if err := h.store.Add(day, entry); err != nil {
		h.writeStoreError(w, err, day)
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusCreated, SuccessResponse{Success: true})
}

// handleUpdate handles PUT /api/matches/{day}/{index}
func (h *MatchesHandler) handleUpdate(w http.ResponseWriter, r *http.Request, day string, index int) {
	var entry registry.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		logging.WriteJSONError(w, h.logger, "Invalid request body", http.StatusBadRequest, map[string]interface{}{
			"day":   day,
			"index": index,
			"error": err.Error(),
		})
		return
	}

	if err := h.store.Update(day, index, entry); err != nil {
		h.writeStoreError(w, err, day)
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusOK, SuccessResponse{Success: true})
}

// handleDelete handles DELETE /api/matches/{day}/{index}
func (h *MatchesHandler) handleDelete(w http.ResponseWriter, r *http.Request, day string, index int) {
	if err := h.store.Delete(day, index); err != nil {
		h.writeStoreError(w, err, day)
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusOK, SuccessResponse{Success: true})
}

// writeStoreError maps registry errors onto the HTTP contract: bad bucket
// or position is 404, a failed persist is 500.
func (h *MatchesHandler) writeStoreError(w http.ResponseWriter, err error, day string) {
	switch {
	case errors.Is(err, registry.ErrUnknownBucket):
		logging.WriteJSONError(w, h.logger, "Unknown day: "+day, http.StatusNotFound, nil)
	case errors.Is(err, registry.ErrIndexOutOfRange):
		logging.WriteJSONError(w, h.logger, "Match not found", http.StatusNotFound, nil)
	default:
		logging.WriteJSONError(w, h.logger, "Failed to save matches", http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
	}
}
