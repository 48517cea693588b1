package dashboard

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"renta/database"
	"renta/model"
)

// SummaryHandler assembles the dashboard payload: monthly revenue, orders by
// status, today's active rentals and the pending-signature count.
// GET /api/dashboard/summary?months=N (default 12)
func SummaryHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months := 12
		if v := r.URL.Query().Get("months"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				http.Error(w, "months must be a positive integer", http.StatusBadRequest)
				return
			}
			months = n
		}

		now := time.Now().UTC()
		fromMonth := now.AddDate(0, -(months - 1), 0).Format("2006-01")
		today := now.Format("2006-01-02")

		revenue, err := database.MonthlyRevenue(db, fromMonth)
		if err != nil {
			fail(w, err)
			return
		}
		statusCounts, err := database.StatusCounts(db)
		if err != nil {
			fail(w, err)
			return
		}
		active, err := database.ActiveRentals(db, today)
		if err != nil {
			fail(w, err)
			return
		}
		awaiting, err := database.CountAwaitingSignature(db)
		if err != nil {
			fail(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.DashboardSummary{
			MonthlyRevenue:    revenue,
			StatusCounts:      statusCounts,
			ActiveRentals:     active,
			AwaitingSignature: awaiting,
		})
	}
}

func fail(w http.ResponseWriter, err error) {
	log.Printf("Dashboard error: %v", err)
	http.Error(w, "Failed to build dashboard summary", http.StatusInternalServerError)
}
