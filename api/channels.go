package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayoubalgboom-bot/brglive-website/channels"
	"github.com/ayoubalgboom-bot/brglive-website/logging"
)

// CreateChannelResponse acknowledges a created channel, echoing the stored
// record with its assigned ID
type CreateChannelResponse struct {
	Success bool             `json:"success"`
	Channel channels.Channel `json:"channel"`
}

// ChannelsHandler handles /api/channels and /api/channels/{id}
type ChannelsHandler struct {
	store  *channels.Store
	logger *logging.Logger
}

// NewChannelsHandler creates a new handler for the channels API
func NewChannelsHandler(store *channels.Store, logger *logging.Logger) *ChannelsHandler {
	return &ChannelsHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP routes channel requests by path shape and method
func (h *ChannelsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/channels")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if strings.Contains(path, "/") {
		logging.WriteJSONError(w, h.logger, "Not found", http.StatusNotFound, nil)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.handleUpdate(w, r, path)
	case http.MethodDelete:
		h.handleDelete(w, r, path)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleList handles GET /api/channels
func (h *ChannelsHandler) handleList(w http.ResponseWriter) {
	logging.WriteJSON(w, h.logger, http.StatusOK, h.store.List())
}

// handleCreate handles POST /api/channels
func (h *ChannelsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var partial channels.Partial
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		logging.WriteJSONError(w, h.logger, "Invalid request body", http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	created, err := h.store.Create(partial)
	if err != nil {
		logging.WriteJSONError(w, h.logger, "Failed to save channels", http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusCreated, CreateChannelResponse{
		Success: true,
		Channel: created,
	})
}

// handleUpdate handles PUT /api/channels/{id}
func (h *ChannelsHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var partial channels.Partial
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		logging.WriteJSONError(w, h.logger, "Invalid request body", http.StatusBadRequest, map[string]interface{}{
			"id":    id,
			"error": err.Error(),
		})
		return
	}

	if err := h.store.Update(id, partial); err != nil {
		h.writeStoreError(w, err)
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusOK, SuccessResponse{Success: true})
}

// handleDelete handles DELETE /api/channels/{id}
func (h *ChannelsHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Delete(id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	logging.WriteJSON(w, h.logger, http.StatusOK, SuccessResponse{Success: true})
}

// writeStoreError maps catalog errors onto the HTTP contract.
func (h *ChannelsHandler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, channels.ErrNotFound) {
		logging.WriteJSONError(w, h.logger, "Channel not found", http.StatusNotFound, nil)
		return
	}
	logging.WriteJSONError(w, h.logger, "Failed to save channels", http.StatusInternalServerError, map[string]interface{}{
		"error": err.Error(),
	})
}
