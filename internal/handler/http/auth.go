package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

// defaultTokenSubject labels tokens requested without a subject.
const defaultTokenSubject = "client"

// issueToken exchanges the shared key in X-API-Key for a bearer token
// returned in the Authorization response header.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.services.AuthService.Authenticate(ctx, r.Header.Get(utils.HeaderAPIKey)); err != nil {
		log.Err(err).Str("func", "*Handler.issueToken").Msg("api key rejected")
		utils.WriteJSONError(w, app.MsgUnauthorized, http.StatusUnauthorized)
		return
	}

	var request models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		log.Err(err).Str("func", "*Handler.issueToken").Msg("invalid JSON was passed")
		utils.WriteJSONError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	if request.Subject == "" {
		request.Subject = defaultTokenSubject
	}

	token, err := h.services.AuthService.CreateToken(ctx, request.Subject)
	if err != nil {
		writeError(w, r, "*Handler.issueToken", err)
		return
	}

	log.Debug().Str("subject", request.Subject).Msg("token issued")

	w.Header().Set(utils.HeaderAuthorization, "Bearer "+token.SignedString)
	w.WriteHeader(http.StatusOK)
}
