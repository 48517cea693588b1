package settings

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"renta/database"
	"renta/model"
)

// Handler serves the single company_settings row: GET returns it, POST
// replaces it.
func Handler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s, err := database.GetCompanySettings(db)
			if err != nil {
				log.Printf("Error loading company settings: %v", err)
				http.Error(w, "Failed to load settings", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(s)

		case http.MethodPost:
			var s model.CompanySettings
			if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			if err := database.SaveCompanySettings(db, &s); err != nil {
				log.Printf("Error saving company settings: %v", err)
				http.Error(w, "Failed to save settings", http.StatusInternalServerError)
				return
			}
			saved, err := database.GetCompanySettings(db)
			if err != nil {
				log.Printf("Error reloading company settings: %v", err)
				http.Error(w, "Failed to reload settings", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(saved)

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}
