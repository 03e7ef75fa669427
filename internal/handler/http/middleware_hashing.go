package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

// checkHashing verifies the HashSHA256 header against the raw body when the
// server has a hash key and the client sent a signature. Unsigned requests
// pass through.
func (h *Handler) checkHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(utils.HeaderHash)
		if !h.checkHash || signature == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).Str("func", "*Handler.checkHashing").Msg("failed to read request body")
			utils.WriteJSONError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !utils.VerifyPayload(body, signature) {
			log.Error().Str("func", "*Handler.checkHashing").
				Str("hash from request", signature).
				Msg("hashes are not equal")
			utils.WriteJSONError(w, app.MsgHashMismatch, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// limitUpload caps the request body at the configured upload size.
func (h *Handler) limitUpload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.maxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		}
		next.ServeHTTP(w, r)
	})
}
