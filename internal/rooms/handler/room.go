package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/rooms/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log,
	}
}

// Wire request shapes. Clients spell interval fields several ways
// (start/start_time/startTime/time, ...); everything is folded into the
// canonical request here so the core never sees the aliases.

type reserveRequest struct {
	RoomID       string `json:"room_id"`
	RoomIDCamel  string `json:"roomId"`
	Requester    string `json:"requester"`
	User         string `json:"user"`
	Date         string `json:"date"`
	Start        string `json:"start"`
	StartSnake   string `json:"start_time"`
	StartCamel   string `json:"startTime"`
	Time         string `json:"time"`
	End          string `json:"end"`
	EndSnake     string `json:"end_time"`
	EndCamel     string `json:"endTime"`
	TimeEnd      string `json:"timeEnd"`
	BasePriority int    `json:"base_priority"`
}

func (r reserveRequest) canonical() *model.ReservationRequest {
	return &model.ReservationRequest{
		RoomID:    firstNonEmpty(r.RoomID, r.RoomIDCamel),
		Requester: firstNonEmpty(r.Requester, r.User),
		Slot: model.Slot{
			Date:  r.Date,
			Start: firstNonEmpty(r.Start, r.StartSnake, r.StartCamel, r.Time),
			End:   firstNonEmpty(r.End, r.EndSnake, r.EndCamel, r.TimeEnd, r.Time),
		},
		BasePriority: r.BasePriority,
	}
}

type cancelRequest struct {
	RoomID      string `json:"room_id"`
	RoomIDCamel string `json:"roomId"`
	Requester   string `json:"requester"`
	User        string `json:"user"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	StartSnake  string `json:"start_time"`
	StartCamel  string `json:"startTime"`
	End         string `json:"end"`
	EndSnake    string `json:"end_time"`
	EndCamel    string `json:"endTime"`
	TimeEnd     string `json:"timeEnd"`
}

func (r cancelRequest) canonical() *model.CancelRequest {
	return &model.CancelRequest{
		RoomID:    firstNonEmpty(r.RoomID, r.RoomIDCamel),
		Requester: firstNonEmpty(r.Requester, r.User),
		Slot: model.Slot{
			Date:  r.Date,
			Start: firstNonEmpty(r.Start, r.StartSnake, r.StartCamel),
			End:   firstNonEmpty(r.End, r.EndSnake, r.EndCamel, r.TimeEnd),
		},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *RoomHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}

	if err := httputil.WriteSuccess(w, summary); err != nil {
		h.log.Error("failed to write success response", "handler", "Summary", "error", err)
	}
}

func (h *RoomHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var wire reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeBadBody(w, "Reserve")
		return
	}

	result, err := h.service.Reserve(r.Context(), wire.canonical())
	if err != nil {
		h.writeError(w, "Reserve", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Reserve", "error", err)
	}
}

func (h *RoomHandler) CancelBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var wire cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeBadBody(w, "CancelBooking")
		return
	}

	result, err := h.service.CancelBooking(r.Context(), wire.canonical())
	if err != nil {
		h.writeError(w, "CancelBooking", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelBooking", "error", err)
	}
}

func (h *RoomHandler) CancelWaiting(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var wire cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		h.writeBadBody(w, "CancelWaiting")
		return
	}

	result, err := h.service.CancelWaiting(r.Context(), wire.canonical())
	if err != nil {
		h.writeError(w, "CancelWaiting", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelWaiting", "error", err)
	}
}

func (h *RoomHandler) Promote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	roomID := ps.ByName("id")

	// the override body is optional
	var req *model.PromoteRequest
	if r.Body != nil && r.ContentLength != 0 {
		req = &model.PromoteRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			h.writeBadBody(w, "Promote")
			return
		}
	}

	result, err := h.service.Promote(r.Context(), roomID, req)
	if err != nil {
		h.writeError(w, "Promote", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Promote", "error", err)
	}
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *RoomHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if err := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.List)
	router.GET("/api/v1/rooms/summary", h.Summary)
	router.POST("/api/v1/reservations", h.Reserve)
	router.POST("/api/v1/reservations/cancel", h.CancelBooking)
	router.POST("/api/v1/waiting/cancel", h.CancelWaiting)
	router.POST("/api/v1/rooms/:id/promote", h.Promote)
}
