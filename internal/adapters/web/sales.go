package web

import (
	"net/http"

	"stockpos/internal/app"
	"stockpos/internal/core"
	"stockpos/internal/metrics"
)

// apiRecordSale handles POST /api/sales.
// Body: { customer_id, lines: [{product_id, quantity}, ...] }
// The seller identity comes from the bearer token, never from the body.
func (h *Handler) apiRecordSale(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	var body struct {
		CustomerID int `json:"customer_id"`
		Lines      []struct {
			ProductID int `json:"product_id"`
			Quantity  int `json:"quantity"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	req := app.RecordSaleRequest{
		ActingUserID: claims.UserID,
		CustomerID:   body.CustomerID,
	}
	for _, l := range body.Lines {
		req.Lines = append(req.Lines, app.SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	result, err := h.svc.RecordSale(r.Context(), req)
	if err != nil {
		metrics.SalesRejected.WithLabelValues(rejectionReason(err)).Inc()
		writeDomainError(w, r, err)
		return
	}
	metrics.SalesRecorded.Inc()

	writeJSONStatus(w, http.StatusCreated, map[string]any{
		"sale_id": result.Sale.ID,
		"message": "sale recorded",
	})
}

// rejectionReason labels a RecordSale failure for the metrics counter.
func rejectionReason(err error) string {
	switch {
	case core.IsValidation(err):
		return "validation"
	case core.IsNotFound(err):
		return "not_found"
	case core.IsConflict(err):
		return "conflict"
	case core.IsTransient(err):
		return "transient"
	default:
		return "internal"
	}
}

// apiListSales handles GET /api/sales.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSales(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Sales)
}

// apiGetSaleDetail handles GET /api/sales/{id} — the sale's line items.
// An unknown sale id produces a bare 404 with an empty body.
func (h *Handler) apiGetSaleDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid sale id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetSaleLines(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if len(result.Lines) == 0 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, result.Lines)
}
