// Package signing serves the public contract endpoints: token-addressed so
// the customer needs no account, only the link.
package signing

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/availability"
	"renta/database"
	"renta/lifecycle"
	"renta/model"
)

// ContractDataHandler returns the aggregated contract for the signing page.
// GET /api/contracts/{token}
func ContractDataHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/contracts/"), "/")
		if token == "" {
			http.Error(w, "Signing token is required", http.StatusBadRequest)
			return
		}
		data, err := database.GetContractData(db, token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Contract not found", http.StatusNotFound)
				return
			}
			log.Printf("Error loading contract %s: %v", token, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data)
	}
}

type signPayload struct {
	SignatureImage string `json:"signatureImage"`
}

// SignHandler captures the customer's signature: stores the image with the
// signer's IP and user agent, stamps signed_at and advances the order per
// its fulfillment type. POST /api/contracts/{token}/sign
func SignHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/contracts/")
		token := strings.TrimSuffix(strings.TrimSuffix(path, "/"), "/sign")
		token = strings.TrimSuffix(token, "/")
		if token == "" {
			http.Error(w, "Signing token is required", http.StatusBadRequest)
			return
		}

		var payload signPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if payload.SignatureImage == "" {
			http.Error(w, "Signature image is required", http.StatusUnprocessableEntity)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("Error starting sign transaction: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		o, err := database.GetOrderBySigningToken(tx, token)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Contract not found", http.StatusNotFound)
				return
			}
			log.Printf("Error loading order for token %s: %v", token, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res, err := lifecycle.Apply(o.Status, lifecycle.ActionSign, o.Fulfillment, o.PickedUpAt.Valid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		// Signing is the moment this order starts committing stock. Another
		// order may have been signed for the same units since this one was
		// drafted, so re-check availability inside the transaction.
		if msg, err := checkAvailabilityInTx(tx, o); err != nil {
			log.Printf("Error re-checking availability for order %d: %v", o.ID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		} else if msg != "" {
			http.Error(w, msg, http.StatusConflict)
			return
		}

		now := time.Now().UTC().Format(time.RFC3339)
		ip := clientIP(r)
		ua := r.UserAgent()
		update := database.StatusUpdate{
			Status:          res.Next,
			SignedAt:        &now,
			SignerIP:        &ip,
			SignerUserAgent: &ua,
			SignatureImage:  &payload.SignatureImage,
		}
		if res.StampPickedUpAt {
			update.PickedUpAt = &now
		}

		if err := database.ApplyStatusUpdateInTx(tx, o.ID, update); err != nil {
			log.Printf("Error storing signature for order %d: %v", o.ID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if err := tx.Commit(); err != nil {
			log.Printf("Error committing signature for order %d: %v", o.ID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":   string(res.Next),
			"signedAt": now,
		})
	}
}

// checkAvailabilityInTx verifies every item of the order still fits the
// product's stock for its range, counting committed orders other than this
// one. A non-empty message names the first shortage.
func checkAvailabilityInTx(tx *sqlx.Tx, o *model.Order) (string, error) {
	start, err := availability.ParseDate(o.StartDate)
	if err != nil {
		return "", err
	}
	end, err := availability.ParseDate(o.EndDate)
	if err != nil {
		return "", err
	}

	items, err := database.GetOrderItems(tx, o.ID)
	if err != nil {
		return "", err
	}

	held := map[int64]int{}
	for _, it := range items {
		product, err := database.GetProduct(tx, it.ProductID)
		if err != nil {
			return "", err
		}
		commitments, err := database.FetchCommitments(tx, it.ProductID, o.StartDate, o.EndDate, o.ID)
		if err != nil {
			return "", err
		}
		available := availability.AvailableUnits(product.TotalQuantity, start, end, commitments)
		if held[it.ProductID]+it.Quantity > available {
			return fmt.Sprintf("%s: only %d of %d units still available for %s to %s",
				product.Name, available-held[it.ProductID], it.Quantity, o.StartDate, o.EndDate), nil
		}
		held[it.ProductID] += it.Quantity
	}
	return "", nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
