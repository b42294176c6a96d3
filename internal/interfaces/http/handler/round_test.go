package handler

import (
	"net/http"
	"testing"
	"time"

	preorderapp "github.com/preorder/backoffice/internal/application/preorder"
	"github.com/preorder/backoffice/internal/interfaces/http/dto"
	"github.com/preorder/backoffice/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHandler_Create(t *testing.T) {
	s := newTestServer(t)
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantActive bool
	}{
		{
			name: "defaults to active",
			body: map[string]any{
				"name": "Mooncake 2026", "start_date": start, "end_date": start.AddDate(0, 0, 14), "delivery_date": start.AddDate(0, 0, 20),
			},
			wantStatus: http.StatusCreated,
			wantActive: true,
		},
		{
			name: "explicitly inactive",
			body: map[string]any{
				"name": "Draft round", "start_date": start, "end_date": start, "delivery_date": start, "is_active": false,
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "end before start",
			body: map[string]any{
				"name": "Backwards", "start_date": start, "end_date": start.AddDate(0, 0, -1), "delivery_date": start,
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing dates",
			body:       map[string]any{"name": "No dates"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.ServeJSON(t, s.engine, http.MethodPost, "/api/v1/preorder/rounds", tt.body)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusCreated {
				assert.Equal(t, dto.ErrCodeValidation, testutil.ErrorCode(t, w))
				return
			}
			assert.Equal(t, tt.wantActive, testutil.DecodeData[preorderapp.RoundResponse](t, w).IsActive)
		})
	}
}

func TestRoundHandler_ActiveRound(t *testing.T) {
	s := newTestServer(t)

	w := testutil.ServeJSON(t, s.engine, http.MethodGet, "/api/v1/preorder/rounds/active", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	later := s.createRound(t, "New Year", time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC))
	earlier := s.createRound(t, "Christmas", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))

	w = testutil.ServeJSON(t, s.engine, http.MethodGet, "/api/v1/preorder/rounds/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, earlier.ID, testutil.DecodeData[preorderapp.RoundResponse](t, w).ID)

	w = testutil.ServeJSON(t, s.engine, http.MethodPost, "/api/v1/preorder/rounds/"+earlier.ID.String()+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.ServeJSON(t, s.engine, http.MethodGet, "/api/v1/preorder/rounds/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, later.ID, testutil.DecodeData[preorderapp.RoundResponse](t, w).ID)
}

func TestRoundHandler_UpdateAndList(t *testing.T) {
	s := newTestServer(t)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	round := s.createRound(t, "Autumn", start)
	s.createRound(t, "Winter", start.AddDate(0, 3, 0))

	w := testutil.ServeJSON(t, s.engine, http.MethodPut, "/api/v1/preorder/rounds/"+round.ID.String(), map[string]any{
		"name": "Autumn (extended)", "start_date": start, "end_date": start.AddDate(0, 1, 0), "delivery_date": start.AddDate(0, 1, 5),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Autumn (extended)", testutil.DecodeData[preorderapp.RoundResponse](t, w).Name)

	w = testutil.ServeJSON(t, s.engine, http.MethodGet, "/api/v1/preorder/rounds?search=Autumn", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rounds := testutil.DecodeData[[]preorderapp.RoundResponse](t, w)
	require.Len(t, rounds, 1)
	assert.Equal(t, round.ID, rounds[0].ID)
}

func TestRoundHandler_DeleteBlockedByOrders(t *testing.T) {
	s := newTestServer(t)
	round := s.createRound(t, "Songkran", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	empty := s.createRound(t, "Empty", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	product := s.createProduct(t, "Khanom chan", 35)

	body := orderBody("Somchai", product, 2, "", "")
	body["round_id"] = round.ID
	s.createOrder(t, body)

	w := testutil.ServeJSON(t, s.engine, http.MethodDelete, "/api/v1/preorder/rounds/"+round.ID.String(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, testutil.ErrorCode(t, w))

	w = testutil.ServeJSON(t, s.engine, http.MethodDelete, "/api/v1/preorder/rounds/"+empty.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.ServeJSON(t, s.engine, http.MethodGet, "/api/v1/preorder/rounds/"+empty.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
