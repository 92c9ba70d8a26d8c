package http

import (
	"net/http"

	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.listProducts", service.ErrUnauthorized)
		return
	}

	products, err := h.services.ProductService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.listProducts", err)
		return
	}

	utils.WriteJSON(w, products, http.StatusOK)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.createProduct", service.ErrUnauthorized)
		return
	}

	var product models.Product
	if err := decodeJSON(r, &product); err != nil {
		writeError(w, r, "*Handler.createProduct", err)
		return
	}

	created, err := h.services.ProductService.Create(r.Context(), userID, product)
	if err != nil {
		writeError(w, r, "*Handler.createProduct", err)
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.getProduct", err)
		return
	}

	product, err := h.services.ProductService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, "*Handler.getProduct", err)
		return
	}

	utils.WriteJSON(w, product, http.StatusOK)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.updateProduct", err)
		return
	}

	var product models.Product
	if err = decodeJSON(r, &product); err != nil {
		writeError(w, r, "*Handler.updateProduct", err)
		return
	}

	updated, err := h.services.ProductService.Update(r.Context(), userID, id, product)
	if err != nil {
		writeError(w, r, "*Handler.updateProduct", err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteProduct", err)
		return
	}

	if err = h.services.ProductService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, "*Handler.deleteProduct", err)
		return
	}

	utils.WriteJSON(w, models.Response{Success: true, Message: "product deleted"}, http.StatusOK)
}
