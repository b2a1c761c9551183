package adaptor

import (
	"net/http"

	"heartcoach/internal/dto/request"
	"heartcoach/internal/usecase"
	"heartcoach/pkg/utils"

	"go.uber.org/zap"
)

type MedicineHandler struct {
	medicines usecase.MedicineService
	intakes   usecase.IntakeService
	log       *zap.Logger
}

func NewMedicineHandler(medicines usecase.MedicineService, intakes usecase.IntakeService, log *zap.Logger) *MedicineHandler {
	return &MedicineHandler{
		medicines: medicines,
		intakes:   intakes,
		log:       log,
	}
}

// Create handles POST /api/v1/medicine
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateMedicineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	medicine, err := h.medicines.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create medicine")
		return
	}

	utils.ResponseCreated(w, "Medicine created successfully", medicine)
}

// ListToday handles GET /api/v1/medicine
func (h *MedicineHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	medicines, err := h.intakes.ListMedicinesWithTodayStatus(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list medicines")
		return
	}

	utils.ResponseSuccess(w, "Medicines retrieved successfully", medicines)
}

// Get handles GET /api/v1/medicine/{id}
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	medicine, err := h.medicines.Get(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get medicine")
		return
	}

	utils.ResponseSuccess(w, "Medicine retrieved successfully", medicine)
}

// Update handles PUT /api/v1/medicine/{id}
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateMedicineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	medicine, err := h.medicines.Update(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update medicine")
		return
	}

	utils.ResponseSuccess(w, "Medicine updated successfully", medicine)
}

// Delete handles DELETE /api/v1/medicine/{id}
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.medicines.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "delete medicine")
		return
	}

	utils.ResponseNoContent(w)
}

// ListSchedules handles GET /api/v1/medicine/{id}/schedule
func (h *MedicineHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	schedules, err := h.medicines.ListSchedules(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "list schedules")
		return
	}

	utils.ResponseSuccess(w, "Schedules retrieved successfully", schedules)
}

// UpdateSchedule handles PUT /api/v1/medicine/schedule/{schedule_id}
func (h *MedicineHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	scheduleID, ok := pathUUID(w, r, "schedule_id")
	if !ok {
		return
	}

	var req request.UpdateScheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	medicine, err := h.medicines.UpdateSchedule(r.Context(), userID, scheduleID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update schedule")
		return
	}

	utils.ResponseSuccess(w, "Schedule updated successfully", medicine)
}

// RecordStatus handles POST /api/v1/medicine/{id}/status
func (h *MedicineHandler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.RecordIntakeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	intake, err := h.intakes.RecordIntake(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "record intake")
		return
	}

	utils.ResponseSuccess(w, "Status updated successfully", intake)
}

// History handles GET /api/v1/medicine/{id}/intakes?from=&to=
func (h *MedicineHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	var from, to *string
	if v := query.Get("from"); v != "" {
		from = &v
	}
	if v := query.Get("to"); v != "" {
		to = &v
	}

	intakes, err := h.intakes.IntakeHistory(r.Context(), userID, id, from, to)
	if err != nil {
		handleServiceError(w, h.log, err, "intake history")
		return
	}

	utils.ResponseSuccess(w, "Intake history retrieved successfully", intakes)
}
