package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rl1809/stockpile/internal/adapter/storage"
	"github.com/rl1809/stockpile/internal/core/domain"
	"github.com/rl1809/stockpile/internal/core/service"
	"github.com/rl1809/stockpile/internal/port"
)

const defaultLogLimit = 50

// HTTPHandler is a thin wrapper over the inventory service. The service
// itself is single-caller; the handler holds the one exclusive lock
// around every operation.
type HTTPHandler struct {
	mu           sync.Mutex
	inventory    *service.InventoryService
	journal      port.JournalRepository // optional, nil serves the in-memory log
	lowThreshold int
}

type MutateHTTPRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type QuantityHTTPResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type ErrorHTTPResponse struct {
	Error string `json:"error"`
}

// NewHTTPHandler wraps the service. lowThreshold is the default for
// /api/items/low when the request carries no threshold parameter.
func NewHTTPHandler(inventory *service.InventoryService, journal port.JournalRepository, lowThreshold int) *HTTPHandler {
	return &HTTPHandler{inventory: inventory, journal: journal, lowThreshold: lowThreshold}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/items", h.ListItems)
	mux.HandleFunc("/api/items/add", h.AddItem)
	mux.HandleFunc("/api/items/remove", h.RemoveItem)
	mux.HandleFunc("/api/items/qty", h.GetQty)
	mux.HandleFunc("/api/items/low", h.LowStock)
	mux.HandleFunc("/api/snapshot/save", h.SaveSnapshot)
	mux.HandleFunc("/api/snapshot/load", h.LoadSnapshot)
	mux.HandleFunc("/api/logs", h.Logs)
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.inventory.AddItem)
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.inventory.RemoveItem)
}

func (h *HTTPHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, name string, qty int) (int, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MutateHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "invalid request body"})
		return
	}

	h.mu.Lock()
	qty, err := op(r.Context(), req.Name, req.Quantity)
	h.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuantityHTTPResponse{Name: req.Name, Quantity: qty})
}

func (h *HTTPHandler) GetQty(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	h.mu.Lock()
	qty := h.inventory.GetQty(name)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, QuantityHTTPResponse{Name: name, Quantity: qty})
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	items := h.inventory.Items()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]map[string]int{"items": items})
}

func (h *HTTPHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := h.lowThreshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "threshold must be an integer"})
			return
		}
		threshold = n
	}

	h.mu.Lock()
	low, err := h.inventory.LowStock(threshold)
	h.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}
	if low == nil {
		low = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"items": low})
}

func (h *HTTPHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	err := h.inventory.Save(r.Context())
	h.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *HTTPHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	err := h.inventory.Load(r.Context())
	h.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func (h *HTTPHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	if h.journal != nil {
		entries, err := h.journal.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeLogEntries(w, entries)
		return
	}

	h.mu.Lock()
	logs := h.inventory.Logs()
	h.mu.Unlock()

	// In-memory log is oldest first; serve newest first like the journal.
	var entries []domain.LogEntry
	for i := len(logs) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, logs[i])
	}
	writeLogEntries(w, entries)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeLogEntries(w http.ResponseWriter, entries []domain.LogEntry) {
	type logEntryJSON struct {
		ID        string `json:"id"`
		Timestamp string `json:"timestamp"`
		Op        string `json:"op"`
		Item      string `json:"item"`
		Quantity  int    `json:"quantity"`
	}

	out := make([]logEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntryJSON{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
			Op:        string(e.Op),
			Item:      e.Item,
			Quantity:  e.Quantity,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]logEntryJSON{"entries": out})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrInvalidItemName), errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, storage.ErrMalformedRecord):
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, ErrorHTTPResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
