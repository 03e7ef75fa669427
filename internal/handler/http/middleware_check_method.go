// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

// CheckHTTPMethod returns the router's MethodNotAllowed handler.
//
// Chi answers 405 when a path is registered for other methods. This handler
// answers such requests with the same 404 body as unknown paths, so callers
// cannot probe which routes exist. Nested routers are resolved through
// [chi.Mux.Match]; a request that does match is forwarded unchanged.
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			router.ServeHTTP(w, r)
			return
		}

		notFound(w, r)
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSONError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
