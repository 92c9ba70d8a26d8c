// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.listInvoices", service.ErrUnauthorized)
		return
	}

	filter, err := invoiceFilter(r)
	if err != nil {
		writeError(w, r, "*Handler.listInvoices", err)
		return
	}

	invoices, err := h.services.InvoiceService.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, "*Handler.listInvoices", err)
		return
	}

	utils.WriteJSON(w, invoices, http.StatusOK)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.createInvoice", service.ErrUnauthorized)
		return
	}

	var input models.InvoiceInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, "*Handler.createInvoice", err)
		return
	}

	invoice, err := h.services.InvoiceService.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, "*Handler.createInvoice", err)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusCreated)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.getInvoice", err)
		return
	}

	invoice, err := h.services.InvoiceService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, "*Handler.getInvoice", err)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusOK)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.updateInvoice", err)
		return
	}

	var update models.InvoiceUpdate
	if err = decodeJSON(r, &update); err != nil {
		writeError(w, r, "*Handler.updateInvoice", err)
		return
	}

	invoice, err := h.services.InvoiceService.Update(r.Context(), userID, id, update)
	if err != nil {
		writeError(w, r, "*Handler.updateInvoice", err)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusOK)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteInvoice", err)
		return
	}

	if err = h.services.InvoiceService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, "*Handler.deleteInvoice", err)
		return
	}

	utils.WriteJSON(w, models.Response{Success: true, Message: "invoice deleted"}, http.StatusOK)
}

func (h *Handler) setInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.setInvoiceStatus", err)
		return
	}

	var req models.StatusUpdate
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.setInvoiceStatus", err)
		return
	}

	invoice, err := h.services.InvoiceService.SetStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		writeError(w, r, "*Handler.setInvoiceStatus", err)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusOK)
}

func (h *Handler) duplicateInvoice(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.duplicateInvoice", err)
		return
	}

	invoice, err := h.services.InvoiceService.Duplicate(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, "*Handler.duplicateInvoice", err)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusCreated)
}

// spawnRecurring answers 204 when the invoice is not recurring.
func (h *Handler) spawnRecurring(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.spawnRecurring", err)
		return
	}

	invoice, spawned, err := h.services.InvoiceService.SpawnRecurring(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, "*Handler.spawnRecurring", err)
		return
	}
	if !spawned {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusCreated)
}

func (h *Handler) invoiceStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.invoiceStats", service.ErrUnauthorized)
		return
	}

	stats, err := h.services.InvoiceService.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.invoiceStats", err)
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) shareInvoice(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.shareInvoice", err)
		return
	}

	link, err := h.services.ShareService.Issue(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, "*Handler.shareInvoice", err)
		return
	}

	utils.WriteJSON(w, link, http.StatusCreated)
}

// publicInvoice serves a shared invoice without a session.
func (h *Handler) publicInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.services.ShareService.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, "*Handler.publicInvoice", err)
		return
	}

	utils.WriteJSON(w, invoice, http.StatusOK)
}

func ownerAndID(r *http.Request) (int64, int64, error) {
	userID, ok := currentUserID(r)
	if !ok {
		return 0, 0, service.ErrUnauthorized
	}
	id, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}
	return userID, id, nil
}
