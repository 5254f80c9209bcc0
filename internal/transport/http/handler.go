package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_effective_price"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_settings"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
	"github.com/light-bringer/rolediscount-service/internal/transport/payload"
)

// PricingHandler serves the storefront price endpoint and the settings admin endpoints.
type PricingHandler struct {
	saveSettings *save_settings.Interactor
	getPrice     *get_effective_price.Query
	getSettings  *get_settings.Query
	listEvents   *list_events.Query
	decimals     int32
}

// NewPricingHandler creates a new HTTP pricing handler. Money is printed with decimals places.
func NewPricingHandler(
	saveSettings *save_settings.Interactor,
	getPrice *get_effective_price.Query,
	getSettings *get_settings.Query,
	listEvents *list_events.Query,
	decimals int32,
) *PricingHandler {
	return &PricingHandler{
		saveSettings: saveSettings,
		getPrice:     getPrice,
		getSettings:  getSettings,
		listEvents:   listEvents,
		decimals:     decimals,
	}
}

// RegisterRoutes mounts the handler's routes on r.
func (h *PricingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products/{productID}/price", h.HandleGetPrice)
	r.Get("/settings", h.HandleGetSettings)
	r.Put("/settings", h.HandleSaveSettings)
	r.Get("/settings/events", h.HandleListEvents)
}

// HandleGetPrice handles GET /products/{productID}/price.
func (h *PricingHandler) HandleGetPrice(w http.ResponseWriter, r *http.Request) {
	quote, err := h.getPrice.Execute(r.Context(), &get_effective_price.Request{
		ProductID: chi.URLParam(r, "productID"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload.FromQuote(quote, h.decimals))
}

// HandleGetSettings handles GET /settings.
func (h *PricingHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.getSettings.Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload.FromConfiguration(cfg))
}

// HandleSaveSettings handles PUT /settings. The body replaces the whole configuration.
func (h *PricingHandler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var in payload.Settings
	if err := decodeJSON(w, r, &in); err != nil {
		writeBadRequest(w, r, "invalid settings body: "+err.Error())
		return
	}

	resp, err := h.saveSettings.Execute(r.Context(), in.ToSaveRequest())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload.FromConfiguration(resp.Configuration))
}

// HandleListEvents handles GET /settings/events. Optional query parameters:
// event_type, status and limit.
func (h *PricingHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &list_events.Request{
		EventType: query.Get("event_type"),
		Status:    query.Get("status"),
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, r, "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	events, err := h.listEvents.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payload.FromOutbox(events))
}
