package main

import (
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"renta/auth"
	"renta/contract"
	"renta/dashboard"
	"renta/order"
	"renta/product"
	"renta/settings"
	"renta/signing"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB) {
	// Public: login and the customer-facing signing endpoints. Everything
	// else requires a session.
	mux.HandleFunc("/api/login", auth.LoginHandler(dbConn))
	mux.HandleFunc("/api/logout", auth.LogoutHandler(dbConn))

	contractData := signing.ContractDataHandler(dbConn)
	sign := signing.SignHandler(dbConn)
	mux.HandleFunc("/api/contracts/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), "/sign") {
			sign(w, r)
			return
		}
		contractData(w, r)
	})

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		return auth.Require(dbConn, h)
	}

	mux.HandleFunc("/api/products", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			product.ListProductsHandler(dbConn)(w, r)
		case http.MethodPost:
			product.CreateProductHandler(dbConn)(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/products/update/", protect(product.UpdateProductHandler(dbConn)))
	mux.HandleFunc("/api/products/delete/", protect(product.DeleteProductHandler(dbConn)))
	mux.HandleFunc("/api/products/import", protect(product.ImportCatalogCSVHandler(dbConn)))
	mux.HandleFunc("/api/products/assets/create/", protect(product.CreateAssetHandler(dbConn)))
	mux.HandleFunc("/api/products/assets/", protect(product.ListAssetsHandler(dbConn)))
	mux.HandleFunc("/api/assets/delete/", protect(product.DeleteAssetHandler(dbConn)))

	mux.HandleFunc("/api/availability", protect(order.AvailabilityHandler(dbConn)))
	mux.HandleFunc("/api/orders/quote", protect(order.QuoteHandler(dbConn)))

	mux.HandleFunc("/api/orders", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			order.ListOrdersHandler(dbConn)(w, r)
		case http.MethodPost:
			order.CreateOrderHandler(dbConn)(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/orders/detail/", protect(order.GetOrderHandler(dbConn)))
	mux.HandleFunc("/api/orders/update/", protect(order.UpdateOrderHandler(dbConn)))
	mux.HandleFunc("/api/orders/pickup/", protect(order.ConfirmPickupHandler(dbConn)))
	mux.HandleFunc("/api/orders/return/", protect(order.ConfirmReturnHandler(dbConn)))
	mux.HandleFunc("/api/orders/cancel/", protect(order.CancelHandler(dbConn)))
	mux.HandleFunc("/api/orders/whatsapp/", protect(order.WhatsAppLinkHandler(dbConn)))
	mux.HandleFunc("/api/orders/contract/", protect(contract.PDFHandler(dbConn)))

	mux.HandleFunc("/api/profile/password", protect(auth.ChangePasswordHandler(dbConn)))

	mux.HandleFunc("/api/dashboard/summary", protect(dashboard.SummaryHandler(dbConn)))
	mux.HandleFunc("/api/settings", protect(settings.Handler(dbConn)))

	mux.HandleFunc("/api/config", protect(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}))
}
