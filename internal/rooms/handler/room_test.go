package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

// mockRoomService records the canonical requests the handler produced.
type mockRoomService struct {
	reserveReq   *model.ReservationRequest
	cancelReq    *model.CancelRequest
	promoteRoom  string
	promoteReq   *model.PromoteRequest
	reserveErr   error
	listResponse []*model.Room
}

func (m *mockRoomService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return m.listResponse, nil
}

func (m *mockRoomService) Summary(ctx context.Context) (*model.Summary, error) {
	return &model.Summary{Total: 3, Booked: 1, Available: 2}, nil
}

func (m *mockRoomService) Reserve(ctx context.Context, req *model.ReservationRequest) (*model.ReservationResult, error) {
	m.reserveReq = req
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	return &model.ReservationResult{Accepted: true, Message: "ok"}, nil
}

func (m *mockRoomService) CancelBooking(ctx context.Context, req *model.CancelRequest) (*model.CancelResult, error) {
	m.cancelReq = req
	return &model.CancelResult{Found: true, Message: "ok"}, nil
}

func (m *mockRoomService) CancelWaiting(ctx context.Context, req *model.CancelRequest) (*model.CancelResult, error) {
	m.cancelReq = req
	return &model.CancelResult{Found: true, Message: "ok"}, nil
}

func (m *mockRoomService) Promote(ctx context.Context, roomID string, req *model.PromoteRequest) (*model.PromotionResult, error) {
	m.promoteRoom = roomID
	m.promoteReq = req
	return &model.PromotionResult{Promoted: false, Message: "no candidate"}, nil
}

func newTestRouter(svc *mockRoomService) *httprouter.Router {
	router := httprouter.New()
	NewRoomHandler(svc, testLogger()).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *httprouter.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReserveNormalizesFieldAliases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.ReservationRequest
	}{
		{
			name: "canonical fields",
			body: `{"room_id":"room-a","requester":"alice","date":"2025-01-10","start":"09:00","end":"10:00"}`,
			want: model.ReservationRequest{
				RoomID:    "room-a",
				Requester: "alice",
				Slot:      model.Slot{Date: "2025-01-10", Start: "09:00", End: "10:00"},
			},
		},
		{
			name: "camel case aliases",
			body: `{"roomId":"room-a","user":"bob","date":"2025-01-10","startTime":"09:00","endTime":"10:00"}`,
			want: model.ReservationRequest{
				RoomID:    "room-a",
				Requester: "bob",
				Slot:      model.Slot{Date: "2025-01-10", Start: "09:00", End: "10:00"},
			},
		},
		{
			name: "snake case time aliases",
			body: `{"room_id":"room-a","requester":"carol","date":"2025-01-10","start_time":"09:00","end_time":"10:00"}`,
			want: model.ReservationRequest{
				RoomID:    "room-a",
				Requester: "carol",
				Slot:      model.Slot{Date: "2025-01-10", Start: "09:00", End: "10:00"},
			},
		},
		{
			name: "bare time falls back to the same field for both ends",
			body: `{"room_id":"room-a","requester":"dave","date":"2025-01-10","time":"09:00"}`,
			want: model.ReservationRequest{
				RoomID:    "room-a",
				Requester: "dave",
				Slot:      model.Slot{Date: "2025-01-10", Start: "09:00", End: "09:00"},
			},
		},
		{
			name: "canonical fields win over aliases",
			body: `{"room_id":"room-a","roomId":"room-z","requester":"erin","user":"impostor","date":"2025-01-10","start":"09:00","startTime":"08:00","end":"10:00"}`,
			want: model.ReservationRequest{
				RoomID:    "room-a",
				Requester: "erin",
				Slot:      model.Slot{Date: "2025-01-10", Start: "09:00", End: "10:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockRoomService{}
			router := newTestRouter(svc)

			rec := postJSON(t, router, "/api/v1/reservations", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if svc.reserveReq == nil {
				t.Fatal("service was never called")
			}
			if *svc.reserveReq != tt.want {
				t.Errorf("canonical request = %+v, want %+v", *svc.reserveReq, tt.want)
			}
		})
	}
}

func TestReserveRejectsMalformedBody(t *testing.T) {
	svc := &mockRoomService{}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/api/v1/reservations", `{"room_id": nope}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.reserveReq != nil {
		t.Error("service must not be called for a malformed body")
	}
}

func TestReserveMapsValidationError(t *testing.T) {
	svc := &mockRoomService{
		reserveErr: apperrors.Validation("Invalid reservation request", nil),
	}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/api/v1/reservations", `{"room_id":"room-a"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "Invalid reservation request" {
		t.Errorf("error message = %q", resp.Error)
	}
}

func TestCancelBookingNormalizesAliases(t *testing.T) {
	svc := &mockRoomService{}
	router := newTestRouter(svc)

	body := `{"roomId":"room-a","user":"alice","date":"2025-01-10","start_time":"09:00","timeEnd":"10:00"}`
	rec := postJSON(t, router, "/api/v1/reservations/cancel", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	want := model.CancelRequest{
		RoomID:    "room-a",
		Requester: "alice",
		Slot:      model.Slot{Date: "2025-01-10", Start: "09:00", End: "10:00"},
	}
	if svc.cancelReq == nil || *svc.cancelReq != want {
		t.Errorf("canonical request = %+v, want %+v", svc.cancelReq, want)
	}
}

func TestPromoteBodyIsOptional(t *testing.T) {
	svc := &mockRoomService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms/room-a/promote", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.promoteRoom != "room-a" {
		t.Errorf("room id = %q, want room-a", svc.promoteRoom)
	}
	if svc.promoteReq != nil {
		t.Errorf("no body should mean no overrides, got %+v", svc.promoteReq)
	}
}

func TestPromoteParsesOverrides(t *testing.T) {
	svc := &mockRoomService{}
	router := newTestRouter(svc)

	rec := postJSON(t, router, "/api/v1/rooms/room-a/promote", `{"max_wait_hours":24,"priority_high":9}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.promoteReq == nil {
		t.Fatal("overrides were not decoded")
	}
	if svc.promoteReq.MaxWaitHours == nil || *svc.promoteReq.MaxWaitHours != 24 {
		t.Errorf("MaxWaitHours = %v", svc.promoteReq.MaxWaitHours)
	}
	if svc.promoteReq.PriorityHigh == nil || *svc.promoteReq.PriorityHigh != 9 {
		t.Errorf("PriorityHigh = %v", svc.promoteReq.PriorityHigh)
	}
	if svc.promoteReq.PriorityLow != nil {
		t.Errorf("PriorityLow should stay unset, got %v", *svc.promoteReq.PriorityLow)
	}
}

func TestListRoomsEnvelope(t *testing.T) {
	svc := &mockRoomService{
		listResponse: []*model.Room{
			{ID: "room-a", Name: "Conference Room A", Capacity: 10},
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data []*model.Room `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "room-a" {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestSummaryEnvelope(t *testing.T) {
	router := newTestRouter(&mockRoomService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data model.Summary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Total != 3 || resp.Data.Booked != 1 || resp.Data.Available != 2 {
		t.Errorf("summary = %+v", resp.Data)
	}
}
