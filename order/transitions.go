package order

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/config"
	"renta/database"
	"renta/lifecycle"
	"renta/whatsapp"
)

// transition loads the order, resolves the action against the lifecycle
// table and writes the result, all inside one transaction.
func transition(db *sqlx.DB, orderID int64, action lifecycle.Action) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	o, err := database.GetOrder(tx, orderID)
	if err != nil {
		return err
	}
	res, err := lifecycle.Apply(o.Status, action, o.Fulfillment, o.PickedUpAt.Valid)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	update := database.StatusUpdate{Status: res.Next}
	if res.StampSignedAt {
		update.SignedAt = &now
	}
	if res.StampPickedUpAt || res.BackfillPickedUpAt {
		update.PickedUpAt = &now
	}
	if res.StampReturnedAt {
		update.ReturnedAt = &now
	}
	if res.StampCanceledAt {
		update.CanceledAt = &now
	}

	if err := database.ApplyStatusUpdateInTx(tx, orderID, update); err != nil {
		return err
	}
	return tx.Commit()
}

func transitionHandler(db *sqlx.DB, prefix string, action lifecycle.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id, ok := idFromPath(w, r, prefix)
		if !ok {
			return
		}
		if err := transition(db, id, action); err != nil {
			writeError(w, err)
			return
		}
		o, err := database.GetOrder(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(o)
	}
}

// ConfirmPickupHandler moves a signed or reserved order to picked_up.
func ConfirmPickupHandler(db *sqlx.DB) http.HandlerFunc {
	return transitionHandler(db, "/api/orders/pickup/", lifecycle.ActionConfirmPickup)
}

// ConfirmReturnHandler closes out a picked up order.
func ConfirmReturnHandler(db *sqlx.DB) http.HandlerFunc {
	return transitionHandler(db, "/api/orders/return/", lifecycle.ActionConfirmReturn)
}

// CancelHandler cancels any non-terminal order. Irreversible.
func CancelHandler(db *sqlx.DB) http.HandlerFunc {
	return transitionHandler(db, "/api/orders/cancel/", lifecycle.ActionCancel)
}

// WhatsAppLinkHandler returns the wa.me deep link carrying the order summary
// and public signing URL.
func WhatsAppLinkHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromPath(w, r, "/api/orders/whatsapp/")
		if !ok {
			return
		}
		o, err := database.GetOrder(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		settings, err := database.GetCompanySettings(db)
		if err != nil {
			writeError(w, err)
			return
		}

		signingURL := config.GetConfig().BaseURL + "/sign/" + o.SigningToken
		link, err := whatsapp.Link(o, settings, signingURL)
		if err != nil {
			writeError(w, validationf("%v", err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"link": link})
	}
}
