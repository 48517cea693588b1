package product_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renta/model"
	"renta/product"
	"renta/testdb"
)

func postJSON(t *testing.T, h http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCreateAndListProducts(t *testing.T) {
	db := testdb.Open(t)

	in := model.ProductInput{Name: "Concrete Mixer", Kind: model.KindBulk, TotalQuantity: 4}
	rec := postJSON(t, product.CreateProductHandler(db), "/api/products", in)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/products?name=mixer", nil)
	list := httptest.NewRecorder()
	product.ListProductsHandler(db)(list, req)
	require.Equal(t, http.StatusOK, list.Code)

	var products []model.Product
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Concrete Mixer", products[0].Name)
}

func TestCreateProductRejectsInvalidInput(t *testing.T) {
	db := testdb.Open(t)

	cases := []model.ProductInput{
		{Name: "  ", Kind: model.KindBulk, TotalQuantity: 1},
		{Name: "X", Kind: "fancy", TotalQuantity: 1},
		{Name: "X", Kind: model.KindBulk, TotalQuantity: -1},
	}
	for _, in := range cases {
		rec := postJSON(t, product.CreateProductHandler(db), "/api/products", in)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestStockReductionGuard(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 3)

	update := func(qty int) *httptest.ResponseRecorder {
		return postJSON(t, product.UpdateProductHandler(db),
			fmt.Sprintf("/api/products/update/%d", productID),
			model.ProductInput{Name: "Generator", Kind: model.KindBulk, TotalQuantity: qty})
	}

	// Below the committed quantity: refused, naming the held units.
	rec := update(2)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "active orders hold 3 units")

	// Down to exactly the committed quantity is fine.
	rec = update(3)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 3, p.TotalQuantity)
}

func TestDeleteProductReferencedByActiveOrder(t *testing.T) {
	db := testdb.Open(t)
	productID := testdb.SeedProduct(t, db, "Generator", model.KindBulk, 5, "100")
	orderID := testdb.SeedOrder(t, db, model.StatusReserved, "2024-01-10", "2024-01-12", productID, 1)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/products/delete/%d", productID), nil)
	rec := httptest.NewRecorder()
	product.DeleteProductHandler(db)(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Once the order is terminal the product can go.
	_, err := db.Exec(`UPDATE orders SET status = 'canceled' WHERE id = ?`, orderID)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM order_items WHERE order_id = ?`, orderID)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	product.DeleteProductHandler(db)(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestAssetsOnlyForTrackableProducts(t *testing.T) {
	db := testdb.Open(t)
	bulkID := testdb.SeedProduct(t, db, "Chairs", model.KindBulk, 50, "2")
	trackableID := testdb.SeedProduct(t, db, "Drill", model.KindTrackable, 2, "20")

	payload := map[string]string{"serialNumber": "dr 001", "condition": "good"}

	rec := postJSON(t, product.CreateAssetHandler(db),
		fmt.Sprintf("/api/products/assets/create/%d", bulkID), payload)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = postJSON(t, product.CreateAssetHandler(db),
		fmt.Sprintf("/api/products/assets/create/%d", trackableID), payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	// Serial came back normalized.
	assert.Contains(t, rec.Body.String(), "DR-001")

	// Same serial again on the same product collides.
	rec = postJSON(t, product.CreateAssetHandler(db),
		fmt.Sprintf("/api/products/assets/create/%d", trackableID), payload)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Second unit fills the product; a third serial has no unit to attach to.
	rec = postJSON(t, product.CreateAssetHandler(db),
		fmt.Sprintf("/api/products/assets/create/%d", trackableID),
		map[string]string{"serialNumber": "DR-002"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, product.CreateAssetHandler(db),
		fmt.Sprintf("/api/products/assets/create/%d", trackableID),
		map[string]string{"serialNumber": "DR-003"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func importCSV(t *testing.T, h http.HandlerFunc, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "catalog.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestImportCatalogCSV(t *testing.T) {
	db := testdb.Open(t)

	csv := "name,kind,total_quantity,price_per_day,replacement_value\n" +
		"Generator,bulk,5,100,2500\n" +
		"Drill,trackable,2,20.50,300\n"
	rec := importCSV(t, product.ImportCatalogCSVHandler(db), csv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM products"))
	assert.Equal(t, 2, n)
}

func TestImportCatalogCSVBadRowAbortsWholeFile(t *testing.T) {
	db := testdb.Open(t)

	csv := "name,kind,total_quantity,price_per_day,replacement_value\n" +
		"Generator,bulk,5,100,2500\n" +
		"Broken,neither,1,10,10\n"
	rec := importCSV(t, product.ImportCatalogCSVHandler(db), csv)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM products"))
	assert.Equal(t, 0, n, "a bad row must not leave earlier rows behind")
}
