package adaptor

import (
	"net/http"
	"strconv"

	"heartcoach/internal/dto/request"
	"heartcoach/internal/usecase"
	"heartcoach/pkg/utils"

	"go.uber.org/zap"
)

const exportKeyHeader = "X-Export-Key"

type VitalHandler struct {
	service usecase.VitalService
	log     *zap.Logger
}

func NewVitalHandler(service usecase.VitalService, log *zap.Logger) *VitalHandler {
	return &VitalHandler{
		service: service,
		log:     log,
	}
}

// Create handles POST /api/v1/vitals
func (h *VitalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateVitalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vital, err := h.service.Record(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "record vital")
		return
	}

	utils.ResponseCreated(w, "Vital recorded successfully", vital)
}

// ListMine handles GET /api/v1/vitals/me?page=&per_page=
func (h *VitalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 20),
	}
	if validationErrors := utils.ValidateStruct(page); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	vitals, err := h.service.ListMine(r.Context(), userID, page)
	if err != nil {
		handleServiceError(w, h.log, err, "list vitals")
		return
	}

	utils.ResponseSuccess(w, "Vitals retrieved successfully", vitals)
}

// Update handles PUT /api/v1/vitals/{id}
func (h *VitalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateVitalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	vital, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update vital")
		return
	}

	utils.ResponseSuccess(w, "Vital updated successfully", vital)
}

// Delete handles DELETE /api/v1/vitals/{id}
func (h *VitalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "delete vital")
		return
	}

	utils.ResponseNoContent(w)
}

// Export handles GET /api/v1/vitals/export?start=&end=&max_rows=
func (h *VitalHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.ExportVitalsRequest{
		MaxRows: utils.ParseInt(query.Get("max_rows"), usecase.DefaultExportRows),
	}
	if v := query.Get("start"); v != "" {
		req.Start = &v
	}
	if v := query.Get("end"); v != "" {
		req.End = &v
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	export, err := h.service.ExportCSV(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "export vitals")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	if export.Key != "" {
		w.Header().Set(exportKeyHeader, export.Key)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		h.log.Warn("Failed to write vitals export", zap.Error(err))
	}
}
