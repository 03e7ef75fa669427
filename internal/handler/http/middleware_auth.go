package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

// apiKeyClient labels requests authenticated with the raw shared key.
const apiKeyClient = "api-key"

// auth accepts the shared key in X-API-Key or a bearer token issued by
// /api/auth/token. The key wins when both headers are present. On success
// the client label (the token subject, or "api-key") is stored under
// [utils.ClientCtxKey]; every rejection is a 401 with a JSON body.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		if apiKey := r.Header.Get(utils.HeaderAPIKey); apiKey != "" {
			if err := h.services.AuthService.Authenticate(ctx, apiKey); err != nil {
				log.Err(err).Str("func", "*Handler.auth").Msg("api key rejected")
				utils.WriteJSONError(w, app.MsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, utils.ClientCtxKey, apiKeyClient)))
			return
		}

		authHeader := r.Header.Get(utils.HeaderAuthorization)
		if authHeader == "" {
			log.Err(ErrNoCredentials).Str("func", "*Handler.auth").Send()
			utils.WriteJSONError(w, app.MsgUnauthorized, http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(ErrInvalidAuthorizationHeader).Str("func", "*Handler.auth").Send()
			utils.WriteJSONError(w, app.MsgUnauthorized, http.StatusUnauthorized)
			return
		}

		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Msg("token rejected")
			utils.WriteJSONError(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, utils.ClientCtxKey, token.Subject())))
	})
}
