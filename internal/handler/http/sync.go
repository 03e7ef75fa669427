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

// decodeJSON reads the request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, funcName string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Str("func", funcName).Msg("invalid JSON was passed")
		utils.WriteJSONError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var request models.OpenSessionRequest
	if !decodeJSON(w, r, "*Handler.openSession", &request) {
		return
	}

	session, err := h.services.SessionService.OpenSession(r.Context(), request.DeviceID, request.UserName)
	if err != nil {
		writeError(w, r, "*Handler.openSession", err)
		return
	}

	utils.WriteJSON(w, models.OpenSessionResponse{
		SyncID:    session.ID,
		Timestamp: session.StartTimestamp,
	}, http.StatusCreated)
}

func (h *Handler) openIncrementalSession(w http.ResponseWriter, r *http.Request) {
	var request models.OpenIncrementalRequest
	if !decodeJSON(w, r, "*Handler.openIncrementalSession", &request) {
		return
	}

	session, changes, err := h.services.SessionService.OpenIncrementalSession(r.Context(), request.DeviceID, request.UserName, request.LastSyncTime)
	if err != nil {
		writeError(w, r, "*Handler.openIncrementalSession", err)
		return
	}
	if changes == nil {
		changes = []models.Photo{}
	}

	utils.WriteJSON(w, models.OpenIncrementalResponse{
		SyncID:    session.ID,
		Timestamp: session.StartTimestamp,
		Changes:   changes,
	}, http.StatusCreated)
}

func (h *Handler) reconcileMetadata(w http.ResponseWriter, r *http.Request) {
	var request models.ReconcileRequest
	if !decodeJSON(w, r, "*Handler.reconcileMetadata", &request) {
		return
	}

	result, err := h.services.ReconcileService.Reconcile(r.Context(), request.SyncID, request.Photos, request.IsIncremental)
	if err != nil {
		writeError(w, r, "*Handler.reconcileMetadata", err)
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

// uploadFile accepts multipart fields syncId and filePath plus the file
// part "file". A failed write to the object store answers 500 with the
// upload result as body.
func (h *Handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Err(err).Str("func", "*Handler.uploadFile").Int64("limit", tooLarge.Limit).Msg("upload rejected")
			utils.WriteJSONError(w, app.MsgUploadTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		log.Err(err).Str("func", "*Handler.uploadFile").Msg("invalid multipart form")
		utils.WriteJSONError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadFile").Msg("no file part")
		utils.WriteJSONError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadFile").Msg("failed to read file part")
		utils.WriteJSONError(w, app.MsgInvalidDataProvided, http.StatusBadRequest)
		return
	}

	result, err := h.services.FileTransferService.UploadBinary(r.Context(), r.FormValue("syncId"), r.FormValue("filePath"), payload)
	if err != nil {
		writeError(w, r, "*Handler.uploadFile", err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	utils.WriteJSON(w, result, status)
}

func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	var request models.CompleteSessionRequest
	if !decodeJSON(w, r, "*Handler.completeSession", &request) {
		return
	}

	session, err := h.services.SessionService.CompleteSession(r.Context(), request.SyncID, request.Status, request.Error)
	if err != nil {
		writeError(w, r, "*Handler.completeSession", err)
		return
	}

	utils.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) queryStatus(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	request := models.StatusRequest{
		SyncID:   query.Get("syncId"),
		DeviceID: query.Get("deviceId"),
	}

	status, err := h.services.StatusService.QueryStatus(r.Context(), request)
	if err != nil {
		writeError(w, r, "*Handler.queryStatus", err)
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) verifySync(w http.ResponseWriter, r *http.Request) {
	var request models.VerifyRequest
	if !decodeJSON(w, r, "*Handler.verifySync", &request) {
		return
	}

	response, err := h.services.VerifyService.VerifyItems(r.Context(), request.SyncID, request.PhotoIDs)
	if err != nil {
		writeError(w, r, "*Handler.verifySync", err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
