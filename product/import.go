package product

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"renta/database"
	"renta/model"
)

// ImportCatalogCSVHandler bulk-loads products from an uploaded CSV with
// header name,kind,total_quantity,price_per_day,replacement_value. The whole
// file imports in one transaction: any bad row rejects the upload.
func ImportCatalogCSVHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "CSV file upload is required (field 'file')", http.StatusBadRequest)
			return
		}
		defer file.Close()

		inputs, err := parseCatalogCSV(file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			writeError(w, err)
			return
		}
		defer tx.Rollback()

		imported := 0
		for _, in := range inputs {
			if _, err := database.InsertProduct(tx, in); err != nil {
				writeError(w, err)
				return
			}
			imported++
		}
		if err := tx.Commit(); err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"imported": imported})
	}
}

func parseCatalogCSV(f io.Reader) ([]model.ProductInput, error) {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 5

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(header[0])) != "name" {
		return nil, fmt.Errorf("unexpected CSV header, want name,kind,total_quantity,price_per_day,replacement_value")
	}

	var inputs []model.ProductInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		in := model.ProductInput{
			Name: strings.TrimSpace(record[0]),
			Kind: model.ProductKind(strings.TrimSpace(record[1])),
		}
		if in.Name == "" {
			return nil, fmt.Errorf("line %d: product name is empty", line)
		}
		if !in.Kind.Valid() {
			return nil, fmt.Errorf("line %d: kind %q must be trackable or bulk", line, record[1])
		}
		qty, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("line %d: bad total_quantity %q", line, record[2])
		}
		in.TotalQuantity = qty
		in.PricePerDay, err = decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil || in.PricePerDay.IsNegative() {
			return nil, fmt.Errorf("line %d: bad price_per_day %q", line, record[3])
		}
		in.ReplacementValue, err = decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil || in.ReplacementValue.IsNegative() {
			return nil, fmt.Errorf("line %d: bad replacement_value %q", line, record[4])
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
