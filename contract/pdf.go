package contract

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/jmoiron/sqlx"

	"renta/config"
	"renta/database"
)

// PrintPDF renders the contract HTML through a headless Chromium and returns
// the PDF bytes. The document is written to a temp file so the browser loads
// it without a server round trip.
func PrintPDF(html []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "contract-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp contract file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp contract file: %w", err)
	}
	tmp.Close()

	var pdf []byte
	err = rod.Try(func() {
		u := launcher.New().
			Headless(config.GetConfig().HeadlessPDF).
			Leakless(false).
			MustLaunch()

		browser := rod.New().ControlURL(u).MustConnect()
		defer browser.MustClose()

		page := browser.MustPage("file://" + tmp.Name())
		page.MustWaitStable()

		reader, err := page.PDF(&proto.PagePrintToPDF{
			PrintBackground:   true,
			PreferCSSPageSize: true,
		})
		if err != nil {
			panic(err)
		}
		pdf, err = io.ReadAll(reader)
		if err != nil {
			panic(err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print contract PDF: %w", err)
	}
	return pdf, nil
}

// PDFHandler streams the contract PDF for an order.
// GET /api/orders/contract/{id}
func PDFHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/orders/contract/"), "/")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Order id is required", http.StatusBadRequest)
			return
		}

		o, err := database.GetOrder(db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Order not found", http.StatusNotFound)
				return
			}
			log.Printf("Error loading order %d for PDF: %v", id, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		data, err := database.GetContractData(db, o.SigningToken)
		if err != nil {
			log.Printf("Error loading contract data for order %d: %v", id, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		html, err := RenderHTML(data)
		if err != nil {
			log.Printf("Error rendering contract for order %d: %v", id, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		pdf, err := PrintPDF(html)
		if err != nil {
			log.Printf("Error printing contract PDF for order %d: %v", id, err)
			http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=contract-%s.pdf", data.OrderNumber))
		w.Write(pdf)
	}
}
