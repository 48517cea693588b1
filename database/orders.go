package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/model"
)

func GetOrder(q sqlx.Queryer, id int64) (*model.Order, error) {
	var o model.Order
	if err := sqlx.Get(q, &o, `SELECT * FROM orders WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func GetOrderBySigningToken(q sqlx.Queryer, token string) (*model.Order, error) {
	var o model.Order
	if err := sqlx.Get(q, &o, `SELECT * FROM orders WHERE signing_token = ?`, token); err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderFilters narrows ListOrders. Zero values mean "no filter".
type OrderFilters struct {
	Status   model.OrderStatus
	DateFrom string
	DateTo   string
}

// ListOrders returns orders newest first, optionally filtered by status and
// by overlap with a date window.
func ListOrders(q sqlx.Queryer, f OrderFilters) ([]model.Order, error) {
	query := `SELECT * FROM orders WHERE 1=1`
	args := []interface{}{}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.DateFrom != "" {
		query += ` AND end_date >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		query += ` AND start_date <= ?`
		args = append(args, f.DateTo)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	orders := []model.Order{}
	if err := sqlx.Select(q, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// InsertOrderInTx writes a new order row and returns its id. Items are
// inserted separately in the same transaction.
func InsertOrderInTx(tx *sqlx.Tx, o *model.Order) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.Exec(`
		INSERT INTO orders (
			order_number, user_id, status, fulfillment, delivery,
			customer_name, customer_document, customer_phone, customer_email, customer_address,
			start_date, end_date, duration_days, subtotal_per_day, total_amount,
			signing_token, signed_at, picked_up_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.UserID, o.Status, o.Fulfillment, o.Delivery,
		o.CustomerName, o.CustomerDocument, o.CustomerPhone, o.CustomerEmail, o.CustomerAddress,
		o.StartDate, o.EndDate, o.DurationDays, o.SubtotalPerDay, o.TotalAmount,
		o.SigningToken, o.SignedAt, o.PickedUpAt, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order %s: %w", o.OrderNumber, err)
	}
	return res.LastInsertId()
}

// UpdateOrderFieldsInTx rewrites the editable fields (customer info, dates,
// totals, fulfillment, delivery) of an order in an editable status.
func UpdateOrderFieldsInTx(tx *sqlx.Tx, o *model.Order) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.Exec(`
		UPDATE orders
		SET customer_name = ?, customer_document = ?, customer_phone = ?, customer_email = ?, customer_address = ?,
		    start_date = ?, end_date = ?, fulfillment = ?, delivery = ?,
		    duration_days = ?, subtotal_per_day = ?, total_amount = ?, updated_at = ?
		WHERE id = ?`,
		o.CustomerName, o.CustomerDocument, o.CustomerPhone, o.CustomerEmail, o.CustomerAddress,
		o.StartDate, o.EndDate, o.Fulfillment, o.Delivery,
		o.DurationDays, o.SubtotalPerDay, o.TotalAmount, now, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update order %d: %w", o.ID, err)
	}
	return nil
}

// StatusUpdate carries a resolved lifecycle transition to the orders table.
// Nil timestamp pointers leave the column untouched.
type StatusUpdate struct {
	Status          model.OrderStatus
	SignedAt        *string
	SignerIP        *string
	SignerUserAgent *string
	SignatureImage  *string
	PickedUpAt      *string
	ReturnedAt      *string
	CanceledAt      *string
}

// ApplyStatusUpdateInTx writes a transition result. Only non-nil fields are
// set so earlier timestamps survive later transitions.
func ApplyStatusUpdateInTx(tx *sqlx.Tx, orderID int64, u StatusUpdate) error {
	query := `UPDATE orders SET status = ?, updated_at = ?`
	args := []interface{}{u.Status, time.Now().UTC().Format(time.RFC3339)}

	set := func(column string, v *string) {
		if v != nil {
			query += `, ` + column + ` = ?`
			args = append(args, *v)
		}
	}
	set("signed_at", u.SignedAt)
	set("signer_ip", u.SignerIP)
	set("signer_user_agent", u.SignerUserAgent)
	set("signature_image", u.SignatureImage)
	set("picked_up_at", u.PickedUpAt)
	set("returned_at", u.ReturnedAt)
	set("canceled_at", u.CanceledAt)

	query += ` WHERE id = ?`
	args = append(args, orderID)

	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to apply status update on order %d: %w", orderID, err)
	}
	return nil
}
