package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/audit"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/model"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/notify"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/store"
	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/view"
)

// ConsoleHandler exposes the synchronized appointment view to the operator
// frontend. The frontend owns rendering; these endpoints own nothing but
// serialization of the core's state.
type ConsoleHandler struct {
	fetcher   *view.Fetcher
	deleter   *view.Deleter
	col       *store.Collection
	feed      *notify.Feed
	auditRepo *audit.Repository // nil when audit is disabled
	navigator view.Navigator
	logger    *slog.Logger
}

func NewConsoleHandler(fetcher *view.Fetcher, deleter *view.Deleter, col *store.Collection, feed *notify.Feed, auditRepo *audit.Repository, navigator view.Navigator, logger *slog.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		fetcher:   fetcher,
		deleter:   deleter,
		col:       col,
		feed:      feed,
		auditRepo: auditRepo,
		navigator: navigator,
		logger:    logger,
	}
}

func (h *ConsoleHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/appointments", h.collection)
	mux.HandleFunc("/api/v1/appointments/", h.item)
	// Custom-method path keeps refresh out of the id namespace, so an
	// appointment whose upstream id is literally "refresh" stays deletable.
	mux.HandleFunc("/api/v1/appointments:refresh", h.refresh)
	mux.HandleFunc("/api/v1/notifications", h.notifications)
	mux.HandleFunc("/api/v1/audit", h.auditEvents)
}

type listResponse struct {
	State        string            `json:"state"`
	Refreshing   bool              `json:"refreshing"`
	Error        string            `json:"error,omitempty"`
	Total        int               `json:"total"`
	Appointments []appointmentItem `json:"appointments"`
	PendingIDs   []string          `json:"pending_ids"`
}

type appointmentItem struct {
	AppointmentID string      `json:"appointment_id"`
	Status        string      `json:"status"`
	CreatedAt     string      `json:"created_at"`
	DisplayName   string      `json:"display_name"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email,omitempty"`
	Service       serviceItem `json:"service"`
	Address       addressItem `json:"address"`
}

type serviceItem struct {
	ServiceID string  `json:"service_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
}

type addressItem struct {
	State    string `json:"state"`
	Area     string `json:"area"`
	District string `json:"district"`
	Landmark string `json:"landmark,omitempty"`
}

func (h *ConsoleHandler) collection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := h.fetcher.State()
	resp := listResponse{
		State:        state.Phase.String(),
		Refreshing:   state.Refreshing,
		Error:        state.ErrorMessage,
		Appointments: []appointmentItem{},
		PendingIDs:   []string{},
	}

	// While the lifecycle sits in the error phase the frontend shows the
	// error panel exclusively, so no records are returned alongside it.
	if state.Phase != view.PhaseError {
		records, pending := h.col.Snapshot()
		projected := view.Project(records, r.URL.Query().Get("q"))
		resp.Total = len(records)
		for _, rec := range projected {
			resp.Appointments = append(resp.Appointments, toItem(rec))
		}
		for id := range pending {
			resp.PendingIDs = append(resp.PendingIDs, id)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ConsoleHandler) item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/appointments/")
	switch {
	case strings.HasSuffix(rest, "/details"):
		h.details(w, r, strings.TrimSuffix(rest, "/details"))
	default:
		h.delete(w, r, rest)
	}
}

func (h *ConsoleHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Outcome is reflected in the lifecycle state either way; the response
	// status stays 200 so the frontend keeps polling the same endpoint.
	_ = h.fetcher.Fetch(r.Context())

	state := h.fetcher.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"state": state.Phase.String(),
		"error": state.ErrorMessage,
	})
}

func (h *ConsoleHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	if err := h.deleter.DeleteByID(r.Context(), id); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"message": "could not delete appointment",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"appointment_id": id,
		"status":         "deleted",
	})
}

func (h *ConsoleHandler) details(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, h.navigator.DetailsURL(id), http.StatusFound)
}

func (h *ConsoleHandler) notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.feed.Recent(limit),
	})
}

func (h *ConsoleHandler) auditEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.auditRepo == nil {
		http.Error(w, "audit trail not configured", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.auditRepo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("audit list failed", "err", err)
		http.Error(w, "audit unavailable", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func toItem(rec model.Appointment) appointmentItem {
	return appointmentItem{
		AppointmentID: rec.ID,
		Status:        string(rec.Status),
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		DisplayName:   rec.DisplayName(),
		Phone:         rec.BookedBy.Phone,
		Email:         rec.BookedBy.Email,
		Service: serviceItem{
			ServiceID: rec.Service.ID,
			Title:     rec.Service.Title,
			Price:     rec.Service.Price,
		},
		Address: addressItem{
			State:    rec.Address.State,
			Area:     rec.Address.Area,
			District: rec.Address.District,
			Landmark: rec.Address.Landmark,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
