package handler

import (
	"net/http"

	"roombook/internal/bookings/service"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, r, "Create", err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, "GetByID", err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

// Update serves both PUT and PATCH: absent fields keep their stored value.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.fail(w, r, "Update", err)
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.fail(w, r, "Update", err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, "Delete", err)
		return
	}

	httputil.WriteSuccess(w, httputil.MessageResponse{
		Message: "Booking deleted successfully",
		ID:      booking.ID,
	})
}

func (h *BookingHandler) AvailableSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	availability, err := h.service.AvailableSlots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, "AvailableSlots", err)
		return
	}

	httputil.WriteSuccess(w, availability)
}

func (h *BookingHandler) Rooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, h.service.Rooms(r.Context()))
}

func (h *BookingHandler) fail(w http.ResponseWriter, r *http.Request, handler string, err error) {
	h.log.Debug("request failed",
		"handler", handler,
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PUT("/api/v1/bookings/:id", h.Update)
	router.PATCH("/api/v1/bookings/:id", h.Update)
	router.DELETE("/api/v1/bookings/:id", h.Delete)
	router.GET("/api/v1/slots", h.AvailableSlots)
	router.GET("/api/v1/rooms", h.Rooms)
}
