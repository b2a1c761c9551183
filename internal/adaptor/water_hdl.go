package adaptor

import (
	"net/http"

	"heartcoach/internal/dto/request"
	"heartcoach/internal/usecase"
	"heartcoach/pkg/utils"

	"go.uber.org/zap"
)

type WaterHandler struct {
	service usecase.WaterService
	log     *zap.Logger
}

func NewWaterHandler(service usecase.WaterService, log *zap.Logger) *WaterHandler {
	return &WaterHandler{
		service: service,
		log:     log,
	}
}

// SetGoal handles POST /api/v1/water/goal
func (h *WaterHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.WaterGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	goal, err := h.service.SetGoal(r.Context(), userID, req.GoalML)
	if err != nil {
		handleServiceError(w, h.log, err, "set water goal")
		return
	}

	utils.ResponseSuccess(w, "Goal set successfully", goal)
}

// LogIntake handles POST /api/v1/water/intake
func (h *WaterHandler) LogIntake(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.WaterIntakeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	status, err := h.service.LogIntake(r.Context(), userID, req.IntakeML)
	if err != nil {
		handleServiceError(w, h.log, err, "log water intake")
		return
	}

	utils.ResponseSuccess(w, "Intake logged", status)
}

// Status handles GET /api/v1/water/status
func (h *WaterHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "water status")
		return
	}

	utils.ResponseSuccess(w, "Water status retrieved", status)
}

// Reset handles POST /api/v1/water/reset
func (h *WaterHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Reset(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "reset water intake")
		return
	}

	utils.ResponseSuccess(w, "Today's intake reset", nil)
}
