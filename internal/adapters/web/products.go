package web

import (
	"net/http"

	"stockpos/internal/app"

	"github.com/shopspring/decimal"
)

// apiListProducts handles GET /api/products.
func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

// apiGetProduct handles GET /api/products/{id}.
func (h *Handler) apiGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// apiCreateProduct handles POST /api/products.
// Body: { name, distributor, arrival_date, unit_price, stock }
func (h *Handler) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Distributor string `json:"distributor"`
		ArrivalDate string `json:"arrival_date"`
		UnitPrice   string `json:"unit_price"`
		Stock       int    `json:"stock"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	price, err := decimal.NewFromString(body.UnitPrice)
	if err != nil {
		writeError(w, r, "invalid unit_price", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CreateProduct(r.Context(), app.CreateProductRequest{
		Name:        body.Name,
		Distributor: body.Distributor,
		ArrivalDate: body.ArrivalDate,
		UnitPrice:   price,
		Stock:       body.Stock,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Product)
}

// apiUpdateProduct handles PUT /api/products/{id}.
// Body: { name, unit_price, stock }
func (h *Handler) apiUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var body struct {
		Name      string `json:"name"`
		UnitPrice string `json:"unit_price"`
		Stock     int    `json:"stock"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	price, err := decimal.NewFromString(body.UnitPrice)
	if err != nil {
		writeError(w, r, "invalid unit_price", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.UpdateProduct(r.Context(), app.UpdateProductRequest{
		ProductID: id,
		Name:      body.Name,
		UnitPrice: price,
		Stock:     body.Stock,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}

// apiDeleteProduct handles DELETE /api/products/{id}.
// Deleting a product that appears on a sale returns 409.
func (h *Handler) apiDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiRestockProduct handles POST /api/products/{id}/restock.
// Body: { quantity }
func (h *Handler) apiRestockProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid product id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.RestockProduct(r.Context(), id, body.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Product)
}
