package order

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"renta/auth"
	"renta/availability"
	"renta/database"
	"renta/lifecycle"
	"renta/model"
	"renta/pricing"
)

// validationError aborts the request with 422 and a message the UI shows
// verbatim. Nothing is written when one is returned.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func validationf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

func writeError(w http.ResponseWriter, err error) {
	var verr *validationError
	var terr *lifecycle.TransitionError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.msg, http.StatusUnprocessableEntity)
	case errors.As(err, &terr):
		http.Error(w, terr.Error(), http.StatusConflict)
	case errors.Is(err, sql.ErrNoRows):
		http.Error(w, "Order not found", http.StatusNotFound)
	default:
		log.Printf("Order handler error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func validateInput(in *model.OrderInput) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return validationf("customer name is required")
	}
	if in.StartDate == "" || in.EndDate == "" {
		return validationf("start and end dates are required")
	}
	start, err := availability.ParseDate(in.StartDate)
	if err != nil {
		return validationf("start date %q is not a valid date", in.StartDate)
	}
	end, err := availability.ParseDate(in.EndDate)
	if err != nil {
		return validationf("end date %q is not a valid date", in.EndDate)
	}
	if end.Before(start) {
		return validationf("end date must not be before start date")
	}
	if len(in.Items) == 0 {
		return validationf("order needs at least one item")
	}
	if in.Fulfillment == "" {
		in.Fulfillment = model.FulfillmentReservation
	}
	if in.Fulfillment != model.FulfillmentImmediate && in.Fulfillment != model.FulfillmentReservation {
		return validationf("unknown fulfillment type %q", in.Fulfillment)
	}
	if in.Delivery == "" {
		in.Delivery = model.DeliveryPickup
	}
	if in.Delivery != model.DeliveryPickup && in.Delivery != model.DeliveryDelivery {
		return validationf("unknown delivery method %q", in.Delivery)
	}
	if in.InitialStatus == "" {
		in.InitialStatus = model.StatusPendingSignature
	}
	if !lifecycle.ValidInitial(in.InitialStatus) {
		return validationf("orders cannot be created in status %q", in.InitialStatus)
	}
	return nil
}

// buildItems validates availability for every cart line inside the caller's
// transaction and returns the denormalized item rows. Lines for the same
// product accumulate against the same availability figure.
func buildItems(tx *sqlx.Tx, in *model.OrderInput, excludeOrderID int64) ([]model.OrderItem, error) {
	start, _ := availability.ParseDate(in.StartDate)
	end, _ := availability.ParseDate(in.EndDate)

	items := make([]model.OrderItem, 0, len(in.Items))
	cartHeld := map[int64]int{}

	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, validationf("item quantity must be positive")
		}
		product, err := database.GetProduct(tx, line.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, validationf("product %d does not exist", line.ProductID)
			}
			return nil, err
		}
		if line.Quantity > product.TotalQuantity {
			return nil, validationf("%s: requested %d exceeds total stock %d",
				product.Name, line.Quantity, product.TotalQuantity)
		}

		commitments, err := database.FetchCommitments(tx, product.ID, in.StartDate, in.EndDate, excludeOrderID)
		if err != nil {
			return nil, err
		}
		available := availability.AvailableUnits(product.TotalQuantity, start, end, commitments)
		if cartHeld[product.ID]+line.Quantity > available {
			return nil, validationf("%s: only %d of %d units available for %s to %s",
				product.Name, available-cartHeld[product.ID], line.Quantity, in.StartDate, in.EndDate)
		}
		cartHeld[product.ID] += line.Quantity

		items = append(items, model.OrderItem{
			ProductID:        product.ID,
			ProductName:      product.Name,
			Quantity:         line.Quantity,
			UnitPrice:        product.PricePerDay,
			ReplacementValue: product.ReplacementValue,
		})
	}
	return items, nil
}

func quoteLines(items []model.OrderItem) []pricing.Line {
	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	return lines
}

// CreateOrderHandler validates availability and persists order plus items in
// one transaction, so a failed check never leaves partial rows behind.
func CreateOrderHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.OrderInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validateInput(&in); err != nil {
			writeError(w, err)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			writeError(w, err)
			return
		}
		defer tx.Rollback()

		items, err := buildItems(tx, &in, 0)
		if err != nil {
			writeError(w, err)
			return
		}

		orderNumber, err := database.NextSequenceInTx(tx, "OR", "OR", 6)
		if err != nil {
			writeError(w, err)
			return
		}

		quote := pricing.ComputeTotal(in.StartDate, in.EndDate, quoteLines(items))
		o := &model.Order{
			OrderNumber:      orderNumber,
			UserID:           auth.UserID(r.Context()),
			Status:           in.InitialStatus,
			Fulfillment:      in.Fulfillment,
			Delivery:         in.Delivery,
			CustomerName:     in.CustomerName,
			CustomerDocument: in.CustomerDocument,
			CustomerPhone:    in.CustomerPhone,
			CustomerEmail:    in.CustomerEmail,
			CustomerAddress:  in.CustomerAddress,
			StartDate:        in.StartDate,
			EndDate:          in.EndDate,
			DurationDays:     quote.DurationDays,
			SubtotalPerDay:   quote.SubtotalPerDay,
			TotalAmount:      quote.TotalAmount,
			SigningToken:     uuid.NewString(),
		}
		if in.InitialStatus == model.StatusSigned {
			// Paper contract recorded after the fact; stamp signing time now.
			now := time.Now().UTC().Format(time.RFC3339)
			o.SignedAt = sql.NullString{String: now, Valid: true}
		}

		orderID, err := database.InsertOrderInTx(tx, o)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := database.InsertOrderItemsInTx(tx, orderID, items); err != nil {
			writeError(w, err)
			return
		}
		if err := tx.Commit(); err != nil {
			writeError(w, err)
			return
		}

		created, err := database.GetOrder(db, orderID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(orderResponse{Order: created, Items: items})
	}
}

type orderResponse struct {
	Order *model.Order      `json:"order"`
	Items []model.OrderItem `json:"items"`
}

// UpdateOrderHandler rewrites customer fields, dates and the item set of an
// editable order. Item replacement and the availability re-check share one
// transaction; the order's own commitments are excluded from the check.
func UpdateOrderHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromPath(w, r, "/api/orders/update/")
		if !ok {
			return
		}
		var in model.OrderInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validateInput(&in); err != nil {
			writeError(w, err)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			writeError(w, err)
			return
		}
		defer tx.Rollback()

		o, err := database.GetOrder(tx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if !lifecycle.IsEditable(o.Status) {
			writeError(w, validationf("order %s in status %q cannot be edited", o.OrderNumber, o.Status))
			return
		}

		items, err := buildItems(tx, &in, o.ID)
		if err != nil {
			writeError(w, err)
			return
		}

		quote := pricing.ComputeTotal(in.StartDate, in.EndDate, quoteLines(items))
		o.CustomerName = in.CustomerName
		o.CustomerDocument = in.CustomerDocument
		o.CustomerPhone = in.CustomerPhone
		o.CustomerEmail = in.CustomerEmail
		o.CustomerAddress = in.CustomerAddress
		o.StartDate = in.StartDate
		o.EndDate = in.EndDate
		o.Fulfillment = in.Fulfillment
		o.Delivery = in.Delivery
		o.DurationDays = quote.DurationDays
		o.SubtotalPerDay = quote.SubtotalPerDay
		o.TotalAmount = quote.TotalAmount

		if err := database.UpdateOrderFieldsInTx(tx, o); err != nil {
			writeError(w, err)
			return
		}
		if err := database.ReplaceOrderItemsInTx(tx, o.ID, items); err != nil {
			writeError(w, err)
			return
		}
		if err := tx.Commit(); err != nil {
			writeError(w, err)
			return
		}

		updated, err := database.GetOrder(db, o.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orderResponse{Order: updated, Items: items})
	}
}

// QuoteHandler prices a candidate cart without touching storage, for the
// live total in the order dialog.
func QuoteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.OrderInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		lines := make([]pricing.Line, 0, len(in.Items))
		for _, item := range in.Items {
			product, err := database.GetProduct(db, item.ProductID)
			if err != nil {
				if err == sql.ErrNoRows {
					writeError(w, validationf("product %d does not exist", item.ProductID))
					return
				}
				writeError(w, err)
				return
			}
			lines = append(lines, pricing.Line{UnitPrice: product.PricePerDay, Quantity: item.Quantity})
		}

		quote := pricing.ComputeTotal(in.StartDate, in.EndDate, lines)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(quote)
	}
}

// AvailabilityHandler answers the order dialog's live availability probe.
func AvailabilityHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		productID, err := strconv.ParseInt(q.Get("productId"), 10, 64)
		if err != nil {
			http.Error(w, "productId is required", http.StatusBadRequest)
			return
		}
		startDate, endDate := q.Get("start"), q.Get("end")
		start, err := availability.ParseDate(startDate)
		if err != nil {
			http.Error(w, "start is not a valid date", http.StatusBadRequest)
			return
		}
		end, err := availability.ParseDate(endDate)
		if err != nil {
			http.Error(w, "end is not a valid date", http.StatusBadRequest)
			return
		}
		var excludeOrderID int64
		if v := q.Get("excludeOrderId"); v != "" {
			excludeOrderID, _ = strconv.ParseInt(v, 10, 64)
		}

		product, err := database.GetProduct(db, productID)
		if err != nil {
			if err == sql.ErrNoRows {
				http.Error(w, "Product not found", http.StatusNotFound)
				return
			}
			writeError(w, err)
			return
		}
		commitments, err := database.FetchCommitments(db, productID, startDate, endDate, excludeOrderID)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{
			"available": availability.AvailableUnits(product.TotalQuantity, start, end, commitments),
		})
	}
}

func ListOrdersHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		orders, err := database.ListOrders(db, database.OrderFilters{
			Status:   model.OrderStatus(q.Get("status")),
			DateFrom: q.Get("from"),
			DateTo:   q.Get("to"),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orders)
	}
}

func GetOrderHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromPath(w, r, "/api/orders/detail/")
		if !ok {
			return
		}
		o, err := database.GetOrder(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		items, err := database.GetOrderItems(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orderResponse{Order: o, Items: items})
	}
}

func idFromPath(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Order id is required", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
