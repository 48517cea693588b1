package product

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"renta/availability"
	"renta/database"
	"renta/model"
	"renta/serial"
)

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	log.Printf("Product handler error: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func validateInput(in *model.ProductInput) string {
	if strings.TrimSpace(in.Name) == "" {
		return "product name is required"
	}
	if !in.Kind.Valid() {
		return "kind must be trackable or bulk"
	}
	if in.TotalQuantity < 0 {
		return "total quantity must not be negative"
	}
	if in.PricePerDay.IsNegative() || in.ReplacementValue.IsNegative() {
		return "prices must not be negative"
	}
	return ""
}

func ListProductsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := database.ListProducts(db, r.URL.Query().Get("name"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}

func CreateProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if msg := validateInput(&in); msg != "" {
			http.Error(w, msg, http.StatusUnprocessableEntity)
			return
		}
		id, err := database.InsertProduct(db, in)
		if err != nil {
			writeError(w, err)
			return
		}
		p, err := database.GetProduct(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}
}

// UpdateProductHandler guards stock reductions: total stock may not drop
// below the quantity active orders already hold, and the rejection names the
// conflicting committed quantity.
func UpdateProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromPath(w, r, "/api/products/update/")
		if !ok {
			return
		}
		var in model.ProductInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if msg := validateInput(&in); msg != "" {
			http.Error(w, msg, http.StatusUnprocessableEntity)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			writeError(w, err)
			return
		}
		defer tx.Rollback()

		current, err := database.GetProduct(tx, id)
		if err != nil {
			writeError(w, err)
			return
		}

		if in.TotalQuantity < current.TotalQuantity {
			commitments, err := database.FetchAllCommitments(tx, id, 0)
			if err != nil {
				writeError(w, err)
				return
			}
			committed := availability.PeakCommitted(commitments)
			if in.TotalQuantity < committed {
				http.Error(w,
					"cannot reduce total stock to "+strconv.Itoa(in.TotalQuantity)+
						": active orders hold "+strconv.Itoa(committed)+" units",
					http.StatusUnprocessableEntity)
				return
			}
		}

		if err := database.UpdateProduct(tx, id, in); err != nil {
			writeError(w, err)
			return
		}
		if err := tx.Commit(); err != nil {
			writeError(w, err)
			return
		}

		p, err := database.GetProduct(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

// DeleteProductHandler refuses to delete products still referenced by live
// orders; history stays intact.
func DeleteProductHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromPath(w, r, "/api/products/delete/")
		if !ok {
			return
		}
		refs, err := database.CountNonTerminalReferences(db, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if refs > 0 {
			http.Error(w, "product is referenced by "+strconv.Itoa(refs)+" active orders", http.StatusConflict)
			return
		}
		if err := database.DeleteProduct(db, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Assets

type assetInput struct {
	SerialNumber string `json:"serialNumber"`
	Condition    string `json:"condition"`
}

func ListAssetsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := idFromPath(w, r, "/api/products/assets/")
		if !ok {
			return
		}
		assets, err := database.ListAssets(db, productID)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assets)
	}
}

// CreateAssetHandler registers a serial-numbered unit under a trackable
// product. Availability stays quantity-based; assets are for identification.
func CreateAssetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := idFromPath(w, r, "/api/products/assets/create/")
		if !ok {
			return
		}
		var in assetInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		p, err := database.GetProduct(db, productID)
		if err != nil {
			writeError(w, err)
			return
		}
		if p.Kind != model.KindTrackable {
			http.Error(w, "bulk products do not carry serial-numbered assets", http.StatusUnprocessableEntity)
			return
		}

		serialNumber, err := serial.Parse(in.SerialNumber)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		count, err := database.CountAssets(db, productID)
		if err != nil {
			writeError(w, err)
			return
		}
		if count >= p.TotalQuantity {
			http.Error(w, "all "+strconv.Itoa(p.TotalQuantity)+" units already have serial numbers", http.StatusUnprocessableEntity)
			return
		}

		id, err := database.InsertAsset(db, productID, serialNumber, in.Condition)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				http.Error(w, "serial number "+serialNumber+" already exists for this product", http.StatusConflict)
				return
			}
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "serialNumber": serialNumber})
	}
}

func DeleteAssetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromPath(w, r, "/api/assets/delete/")
		if !ok {
			return
		}
		if err := database.DeleteAsset(db, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func idFromPath(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Product id is required", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
