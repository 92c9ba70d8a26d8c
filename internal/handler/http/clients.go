package http

import (
	"net/http"

	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.listClients", service.ErrUnauthorized)
		return
	}

	clients, err := h.services.ClientService.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, "*Handler.listClients", err)
		return
	}

	utils.WriteJSON(w, clients, http.StatusOK)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.createClient", service.ErrUnauthorized)
		return
	}

	var client models.Client
	if err := decodeJSON(r, &client); err != nil {
		writeError(w, r, "*Handler.createClient", err)
		return
	}

	created, err := h.services.ClientService.Create(r.Context(), userID, client)
	if err != nil {
		writeError(w, r, "*Handler.createClient", err)
		return
	}

	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.getClient", err)
		return
	}

	client, err := h.services.ClientService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, "*Handler.getClient", err)
		return
	}

	utils.WriteJSON(w, client, http.StatusOK)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.updateClient", err)
		return
	}

	var client models.Client
	if err = decodeJSON(r, &client); err != nil {
		writeError(w, r, "*Handler.updateClient", err)
		return
	}

	updated, err := h.services.ClientService.Update(r.Context(), userID, id, client)
	if err != nil {
		writeError(w, r, "*Handler.updateClient", err)
		return
	}

	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	userID, id, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, "*Handler.deleteClient", err)
		return
	}

	if err = h.services.ClientService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, "*Handler.deleteClient", err)
		return
	}

	utils.WriteJSON(w, models.Response{Success: true, Message: "client deleted"}, http.StatusOK)
}
