package order_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renta/auth"
	"renta/model"
	"renta/order"
	"renta/testdb"
)

func postJSON(t *testing.T, h http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	// The seeded admin profile owns orders created in tests.
	req = req.WithContext(auth.WithUser(req.Context(), 1))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func orderInput(productID int64, qty int, start, end string) model.OrderInput {
	return model.OrderInput{
		CustomerName: "Maria Souza",
		StartDate:    start,
		EndDate:      end,
		Fulfillment:  model.FulfillmentReservation,
		Delivery:     model.DeliveryPickup,
		Items:        []model.OrderItemInput{{ProductID: productID, Quantity: qty}},
	}
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestCreateOrderComputesTotalsAndNumber(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")

	rec := postJSON(t, order.CreateOrderHandler(db), "/api/orders",
		orderInput(productID, 2, "2024-01-01", "2024-01-03"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Order model.Order       `json:"order"`
		Items []model.OrderItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "OR000001", resp.Order.OrderNumber)
	assert.Equal(t, model.StatusPendingSignature, resp.Order.Status)
	assert.Equal(t, 3, resp.Order.DurationDays)
	assert.Equal(t, "200", resp.Order.SubtotalPerDay.String())
	assert.Equal(t, "600", resp.Order.TotalAmount.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "100", resp.Items[0].UnitPrice.String())
}

func TestCreateOrderRespectsAvailability(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 3)

	// Two units remain on the overlapping days.
	rec := postJSON(t, order.CreateOrderHandler(db), "/api/orders",
		orderInput(productID, 2, "2024-01-11", "2024-01-13"))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A third would overbook; the rejection names the availability.
	rec = postJSON(t, order.CreateOrderHandler(db), "/api/orders",
		orderInput(productID, 3, "2024-01-11", "2024-01-13"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "available")
}

func TestCreateOrderFailedValidationWritesNothing(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Ladder", model.KindBulk, 1, "10")

	before := countRows(t, db, "orders")
	rec := postJSON(t, order.CreateOrderHandler(db), "/api/orders",
		orderInput(productID, 5, "2024-01-01", "2024-01-02"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, before, countRows(t, db, "orders"))
	assert.Equal(t, 0, countRows(t, db, "order_items"))
}

func TestCreateOrderRejectsBadInput(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Tent", model.KindBulk, 3, "10")

	cases := []struct {
		name   string
		mutate func(*model.OrderInput)
	}{
		{"no customer", func(in *model.OrderInput) { in.CustomerName = " " }},
		{"inverted range", func(in *model.OrderInput) { in.StartDate, in.EndDate = in.EndDate, in.StartDate }},
		{"no items", func(in *model.OrderInput) { in.Items = nil }},
		{"zero quantity", func(in *model.OrderInput) { in.Items[0].Quantity = 0 }},
		{"bad initial status", func(in *model.OrderInput) { in.InitialStatus = model.StatusPickedUp }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := orderInput(productID, 1, "2024-01-02", "2024-01-05")
			tc.mutate(&in)
			rec := postJSON(t, order.CreateOrderHandler(db), "/api/orders", in)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestCreateOrderRecordedAsSignedCommitsStock(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Mixer", model.KindBulk, 2, "30")

	in := orderInput(productID, 2, "2024-05-01", "2024-05-02")
	in.InitialStatus = model.StatusSigned
	rec := postJSON(t, order.CreateOrderHandler(db), "/api/orders", in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Order model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusSigned, resp.Order.Status)
	assert.True(t, resp.Order.SignedAt.Valid)

	// The signed order now holds all stock for the range.
	rec = postJSON(t, order.CreateOrderHandler(db), "/api/orders",
		orderInput(productID, 1, "2024-05-02", "2024-05-03"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestConfirmPickupStampsTimestamp(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Drill", model.KindTrackable, 2, "20")
	orderID := testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 1)

	rec := postJSON(t, order.ConfirmPickupHandler(db),
		fmt.Sprintf("/api/orders/pickup/%d", orderID), struct{}{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.StatusPickedUp, got.Status)
	assert.True(t, got.PickedUpAt.Valid)
	assert.False(t, got.ReturnedAt.Valid)
}

func TestReturnAfterPickup(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Drill", model.KindTrackable, 2, "20")
	orderID := testdb.SeedOrder(t, db, model.StatusPickedUp, "2024-01-10", "2024-01-12", productID, 1)

	rec := postJSON(t, order.ConfirmReturnHandler(db),
		fmt.Sprintf("/api/orders/return/%d", orderID), struct{}{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.StatusReturned, got.Status)
	assert.True(t, got.ReturnedAt.Valid)
	// Pickup stamp was missing on the seeded order and gets backfilled.
	assert.True(t, got.PickedUpAt.Valid)
}

func TestTransitionOnTerminalOrderConflicts(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Drill", model.KindTrackable, 2, "20")
	orderID := testdb.SeedOrder(t, db, model.StatusCanceled, "2024-01-10", "2024-01-12", productID, 1)

	rec := postJSON(t, order.CancelHandler(db),
		fmt.Sprintf("/api/orders/cancel/%d", orderID), struct{}{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateOrderExcludesItselfFromAvailability(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	orderID := testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 3)

	// Raising its own quantity to the full stock must pass: the order's own
	// hold does not collide with itself.
	rec := postJSON(t, order.UpdateOrderHandler(db),
		fmt.Sprintf("/api/orders/update/%d", orderID),
		orderInput(productID, 5, "2024-01-10", "2024-01-12"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	items, err := func() ([]model.OrderItem, error) {
		out := []model.OrderItem{}
		err := db.Select(&out, `SELECT * FROM order_items WHERE order_id = ?`, orderID)
		return out, err
	}()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestUpdateOrderEchoesFreshRow(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	orderID := testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 1)
	_, err := db.Exec(`UPDATE orders SET updated_at = '2020-01-01T00:00:00Z' WHERE id = ?`, orderID)
	require.NoError(t, err)

	rec := postJSON(t, order.UpdateOrderHandler(db),
		fmt.Sprintf("/api/orders/update/%d", orderID),
		orderInput(productID, 2, "2024-01-10", "2024-01-12"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Order model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	var stored string
	require.NoError(t, db.Get(&stored, "SELECT updated_at FROM orders WHERE id = ?", orderID))
	assert.NotEqual(t, "2020-01-01T00:00:00Z", resp.Order.UpdatedAt)
	assert.Equal(t, stored, resp.Order.UpdatedAt, "response must carry the row as written")
}

func TestUpdateTerminalOrderRejected(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	orderID := testdb.SeedOrder(t, db, model.StatusReturned, "2024-01-10", "2024-01-12", productID, 1)

	rec := postJSON(t, order.UpdateOrderHandler(db),
		fmt.Sprintf("/api/orders/update/%d", orderID),
		orderInput(productID, 1, "2024-01-10", "2024-01-12"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot be edited")
}

func TestQuoteHandlerMatchesPricing(t *testing.T) {
	db := testdb.Open(t)
	p1 := testdb.SeedProduct(t, db, "Speaker", model.KindBulk, 9, "100")
	p2 := testdb.SeedProduct(t, db, "Cable", model.KindBulk, 9, "50")

	in := model.OrderInput{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
		Items: []model.OrderItemInput{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 1},
		},
	}
	rec := postJSON(t, order.QuoteHandler(db), "/api/orders/quote", in)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var quote struct {
		DurationDays   int    `json:"durationDays"`
		SubtotalPerDay string `json:"subtotalPerDay"`
		TotalAmount    string `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 3, quote.DurationDays)
	assert.Equal(t, "250", quote.SubtotalPerDay)
	assert.Equal(t, "750", quote.TotalAmount)
}

func TestAvailabilityHandler(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 3)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/availability?productId=%d&start=2024-01-11&end=2024-01-13", productID), nil)
	rec := httptest.NewRecorder()
	order.AvailabilityHandler(db)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp["available"])
}
