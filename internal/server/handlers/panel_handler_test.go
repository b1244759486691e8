package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/internal/server/handlers"
	"github.com/daway0/pors/internal/server/router"
	"github.com/daway0/pors/internal/service/session"
	"github.com/daway0/pors/pkg/clients/ledger"
)

// stubLedger serves a single open day with one lunch item. Mutation outcomes
// are scripted per test; confirmed adds show up in later calendar fetches the
// way a real backend would report them.
type stubLedger struct {
	createErr error
	qty       int
}

func (s *stubLedger) FetchPanel(_ context.Context, _ *ledger.Identity) (*ledger.PanelResponse, error) {
	return &ledger.PanelResponse{
		IsOpen:             true,
		FirstOrderableDate: models.Date{Year: 1404, Month: 5, Day: 10},
		BreakfastItemCap:   2,
		LatestBuilding:     "B1",
		LatestFloor:        "F1",
	}, nil
}

func (s *stubLedger) FetchAllItems(_ context.Context, _ *ledger.Identity) (*ledger.AllItemsResponse, error) {
	return &ledger.AllItemsResponse{Items: []ledger.ItemDTO{
		{ID: 1, ItemName: "Chicken", ServeTime: "LNC", CurrentPrice: 100, IsActive: true},
	}}, nil
}

func (s *stubLedger) FetchCalendar(_ context.Context, year, month int, _ *ledger.Identity) (*ledger.CalendarResponse, error) {
	if year != 1404 || month != 5 {
		return nil, ledger.ErrMonthNotFound
	}
	resp := &ledger.CalendarResponse{
		Year:           1404,
		Month:          5,
		LastDayOfMonth: 31,
		DaysWithMenu:   []int{10},
		MenuItems: []ledger.DayMenuDTO{{
			Date:         "1404/05/10",
			Items:        []ledger.MenuSlotDTO{{ItemID: 1}},
			OpenForLunch: true,
		}},
	}
	if s.qty > 0 {
		resp.OrderedDays = []int{10}
		resp.Orders = []ledger.OrderDTO{{
			OrderDate:  "1404/05/10",
			OrderItems: []ledger.OrderLineDTO{{ItemID: 1, Quantity: s.qty, PricePerItem: 100}},
		}}
	}
	return resp, nil
}

func (s *stubLedger) GetSubsidy(_ context.Context, _ models.Date, _ *ledger.Identity) (*ledger.SubsidyResponse, error) {
	return new(ledger.SubsidyResponse), nil
}

func (s *stubLedger) CreateOrderItem(_ context.Context, _ ledger.OrderItemRequest) (*ledger.Envelope, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.qty++
	return new(ledger.Envelope), nil
}

func (s *stubLedger) CreateBreakfastOrderItem(ctx context.Context, req ledger.OrderItemRequest) (*ledger.Envelope, error) {
	return s.CreateOrderItem(ctx, req)
}

func (s *stubLedger) RemoveOrderItem(_ context.Context, _ ledger.OrderItemRequest) (*ledger.Envelope, error) {
	if s.qty > 0 {
		s.qty--
	}
	return new(ledger.Envelope), nil
}

func (s *stubLedger) ChangeDeliveryPlace(_ context.Context, _ ledger.DeliveryPlaceRequest) (*ledger.Envelope, error) {
	return new(ledger.Envelope), nil
}

func (s *stubLedger) SetOrderNote(_ context.Context, _ ledger.OrderNoteRequest) (*ledger.Envelope, error) {
	return new(ledger.Envelope), nil
}

func (s *stubLedger) LikeItem(_ context.Context, _ int) (*ledger.Envelope, error) {
	return new(ledger.Envelope), nil
}

func (s *stubLedger) DislikeItem(_ context.Context, _ int) (*ledger.Envelope, error) {
	return new(ledger.Envelope), nil
}

func (s *stubLedger) ResetItemFeedback(_ context.Context, _ int) (*ledger.Envelope, error) {
	return new(ledger.Envelope), nil
}

func newTestServer(stub *stubLedger) http.Handler {
	sessions := session.NewManager(stub, nil, nil, zap.NewNop())
	handler := handlers.NewPanelHandler(sessions, "https://auth.example.com/login", zap.NewNop())
	return router.New(handler, zap.NewNop())
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Remote-User", "reza")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMissingIdentityHeader(t *testing.T) {
	h := newTestServer(&stubLedger{})
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOpenAndAddItem(t *testing.T) {
	h := newTestServer(&stubLedger{})
	require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/session/open", "").Code)

	w := doRequest(h, http.MethodPost, "/session/items/1", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data session.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Order)
	assert.Equal(t, 1, resp.Data.Order.Quantity(1))
}

func TestValidationFailuresMapTo422(t *testing.T) {
	h := newTestServer(&stubLedger{})
	require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/session/open", "").Code)

	w := doRequest(h, http.MethodPost, "/session/items/999", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestExpiredAuthRedirectsToGateway(t *testing.T) {
	stub := &stubLedger{createErr: ledger.ErrReauthRequired}
	h := newTestServer(stub)
	require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/session/open", "").Code)

	w := doRequest(h, http.MethodPost, "/session/items/1", "")
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://auth.example.com/login", resp["redirect"])
}

func TestLedgerRejectionKeepsStatusAndMessages(t *testing.T) {
	stub := &stubLedger{createErr: &ledger.ServerError{
		StatusCode: http.StatusBadRequest,
		Messages: []models.ServerMessage{{
			Level:           models.LevelError,
			Message:         "sold out",
			DisplayDuration: models.DisplayTen,
		}},
	}}
	h := newTestServer(stub)
	require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/session/open", "").Code)

	w := doRequest(h, http.MethodPost, "/session/items/1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Messages []models.ServerMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "sold out", resp.Messages[0].Message)
}

func TestOperationsBeforeOpen(t *testing.T) {
	h := newTestServer(&stubLedger{})
	w := doRequest(h, http.MethodPost, "/session/items/1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSelectDayValidation(t *testing.T) {
	h := newTestServer(&stubLedger{})
	require.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/session/open", "").Code)

	assert.Equal(t, http.StatusBadRequest,
		doRequest(h, http.MethodPost, "/session/day", `{"date":"nope"}`).Code)
	assert.Equal(t, http.StatusOK,
		doRequest(h, http.MethodPost, "/session/day", `{"date":"1404/05/11"}`).Code)
}
