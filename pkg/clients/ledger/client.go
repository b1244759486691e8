package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/daway0/pors/internal/domain/models"
)

// Client exposes the order-ledger operations used by the session engine.
type Client interface {
	FetchPanel(ctx context.Context, acting *Identity) (*PanelResponse, error)
	FetchAllItems(ctx context.Context, acting *Identity) (*AllItemsResponse, error)
	FetchCalendar(ctx context.Context, year, month int, acting *Identity) (*CalendarResponse, error)
	GetSubsidy(ctx context.Context, date models.Date, acting *Identity) (*SubsidyResponse, error)

	CreateOrderItem(ctx context.Context, req OrderItemRequest) (*Envelope, error)
	CreateBreakfastOrderItem(ctx context.Context, req OrderItemRequest) (*Envelope, error)
	RemoveOrderItem(ctx context.Context, req OrderItemRequest) (*Envelope, error)
	ChangeDeliveryPlace(ctx context.Context, req DeliveryPlaceRequest) (*Envelope, error)
	SetOrderNote(ctx context.Context, req OrderNoteRequest) (*Envelope, error)

	LikeItem(ctx context.Context, itemID int) (*Envelope, error)
	DislikeItem(ctx context.Context, itemID int) (*Envelope, error)
	ResetItemFeedback(ctx context.Context, itemID int) (*Envelope, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a ledger client from the panel's base URL.
func NewClient(baseURL string, timeout time.Duration) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

// FetchPanel loads the session bootstrap payload.
func (c *APIClient) FetchPanel(ctx context.Context, acting *Identity) (*PanelResponse, error) {
	result := new(PanelResponse)
	if err := c.get(ctx, "/panel/", nil, acting, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchAllItems loads the full catalog.
func (c *APIClient) FetchAllItems(ctx context.Context, acting *Identity) (*AllItemsResponse, error) {
	result := new(AllItemsResponse)
	if err := c.get(ctx, "/all-items/", nil, acting, result); err != nil {
		return nil, err
	}
	return result, nil
}

// FetchCalendar loads one month of calendar, menu and order data. A month the
// ledger has no data for maps to ErrMonthNotFound.
func (c *APIClient) FetchCalendar(ctx context.Context, year, month int, acting *Identity) (*CalendarResponse, error) {
	result := new(CalendarResponse)
	query := map[string]string{
		"year":  fmt.Sprintf("%d", year),
		"month": fmt.Sprintf("%d", month),
	}
	if err := c.get(ctx, "/calendar/", query, acting, result); err != nil {
		var serverErr *ServerError
		if errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusNotFound {
			return nil, ErrMonthNotFound
		}
		return nil, err
	}
	return result, nil
}

// GetSubsidy fetches the subsidy amount applying to one date.
func (c *APIClient) GetSubsidy(ctx context.Context, date models.Date, acting *Identity) (*SubsidyResponse, error) {
	result := new(SubsidyResponse)
	query := map[string]string{"date": date.String()}
	if err := c.get(ctx, "/get-subsidy/", query, acting, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateOrderItem adds one unit of a lunch item to the order of a date.
func (c *APIClient) CreateOrderItem(ctx context.Context, req OrderItemRequest) (*Envelope, error) {
	return c.post(ctx, "/create-order/", orderItemPayload(req), req.Acting, http.StatusCreated)
}

// CreateBreakfastOrderItem adds one unit of a breakfast item.
func (c *APIClient) CreateBreakfastOrderItem(ctx context.Context, req OrderItemRequest) (*Envelope, error) {
	return c.post(ctx, "/create-breakfast-order/", orderItemPayload(req), req.Acting, http.StatusCreated)
}

// RemoveOrderItem removes one unit of an item from the order of a date.
func (c *APIClient) RemoveOrderItem(ctx context.Context, req OrderItemRequest) (*Envelope, error) {
	return c.post(ctx, "/remove-item-from-order/", orderItemPayload(req), req.Acting, http.StatusOK)
}

// ChangeDeliveryPlace assigns the delivery (building, floor) for one meal
// type of a date's order.
func (c *APIClient) ChangeDeliveryPlace(ctx context.Context, req DeliveryPlaceRequest) (*Envelope, error) {
	payload := map[string]any{
		"newDeliveryBuilding": req.Building,
		"newDeliveryFloor":    req.Floor,
		"date":                req.Date.String(),
		"mealType":            string(req.Meal),
	}
	mergeActing(payload, req.Acting)
	return c.post(ctx, "/change_order_delivery_place/", payload, req.Acting, http.StatusOK)
}

// SetOrderNote updates the free-text note of one day's order.
func (c *APIClient) SetOrderNote(ctx context.Context, req OrderNoteRequest) (*Envelope, error) {
	payload := map[string]any{
		"date": req.Date.String(),
		"note": req.Note,
	}
	mergeActing(payload, req.Acting)
	return c.post(ctx, "/change-order-note/", payload, req.Acting, http.StatusOK)
}

// LikeItem records a like. Feedback is always attributed to the real actor,
// so no identity is ever attached.
func (c *APIClient) LikeItem(ctx context.Context, itemID int) (*Envelope, error) {
	return c.post(ctx, fmt.Sprintf("/items/%d/like/", itemID), nil, nil, http.StatusOK)
}

// DislikeItem records a dislike.
func (c *APIClient) DislikeItem(ctx context.Context, itemID int) (*Envelope, error) {
	return c.post(ctx, fmt.Sprintf("/items/%d/dis-like/", itemID), nil, nil, http.StatusOK)
}

// ResetItemFeedback clears the current reaction.
func (c *APIClient) ResetItemFeedback(ctx context.Context, itemID int) (*Envelope, error) {
	return c.post(ctx, fmt.Sprintf("/items/%d/reset/", itemID), nil, nil, http.StatusOK)
}

func orderItemPayload(req OrderItemRequest) map[string]any {
	payload := map[string]any{
		"item": req.Item,
		"date": req.Date.String(),
	}
	mergeActing(payload, req.Acting)
	return payload
}

func mergeActing(payload map[string]any, acting *Identity) {
	if acting == nil {
		return
	}
	payload["reason"] = acting.Reason
	payload["comment"] = acting.Comment
}

func (c *APIClient) get(ctx context.Context, path string, query map[string]string, acting *Identity, result any) error {
	apiErr := new(Envelope)
	r := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	for k, v := range query {
		r.SetQueryParam(k, v)
	}
	if acting != nil {
		r.SetQueryParam("override_username", acting.Username)
	}

	resp, err := r.Get(path)
	if err != nil {
		return fmt.Errorf("ledger get %s: %w", path, err)
	}
	return checkStatus(resp, apiErr, http.StatusOK)
}

func (c *APIClient) post(ctx context.Context, path string, body any, acting *Identity, wantStatus int) (*Envelope, error) {
	result := new(Envelope)
	apiErr := new(Envelope)
	r := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	if body != nil {
		r.SetBody(body)
	}
	if acting != nil {
		r.SetQueryParam("override_username", acting.Username)
	}

	resp, err := r.Post(path)
	if err != nil {
		return nil, fmt.Errorf("ledger post %s: %w", path, err)
	}
	if err := checkStatus(resp, apiErr, wantStatus); err != nil {
		return nil, err
	}
	return result, nil
}

func checkStatus(resp *resty.Response, apiErr *Envelope, wantStatus int) error {
	code := resp.StatusCode()
	switch {
	case code == wantStatus:
		return nil
	case code == http.StatusForbidden:
		return ErrReauthRequired
	default:
		messages := []models.ServerMessage(nil)
		if apiErr != nil {
			messages = apiErr.Messages
		}
		return &ServerError{StatusCode: code, Messages: messages}
	}
}
