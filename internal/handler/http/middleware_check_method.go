// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

// routedMethods are probed when building the Allow header.
var routedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

var errMethodNotAllowed = errors.New("method not allowed")

// CheckHTTPMethod returns the handler to register as the router's
// MethodNotAllowed handler via [chi.Mux.MethodNotAllowed].
//
// Chi calls it when the path matches a registered route but the method does
// not. The handler probes router for the methods the path does accept and
// answers 405 Method Not Allowed with them in the Allow header. When no
// method matches after all (e.g. the route was reached through a mount with
// its own matching rules) it answers 404 Not Found.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range routedMethods {
			if router.Match(chi.NewRouteContext(), method, r.URL.Path) {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusNotFound)}, http.StatusNotFound)
			return
		}

		w.Header().Set("Allow", strings.Join(allowed, ", "))
		utils.WriteJSON(w, models.ErrorResponse{Message: errMethodNotAllowed.Error()}, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.ErrorResponse{Message: http.StatusText(http.StatusNotFound)}, http.StatusNotFound)
}
