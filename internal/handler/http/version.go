package http

import (
	"net/http"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

// health reports whether the catalog database answers.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Check(r.Context()); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.health").Msg("health check failed")
		utils.WriteJSONError(w, app.MsgServiceUnavailable, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
