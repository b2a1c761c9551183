package request

type WaterGoalRequest struct {
	GoalML int `json:"goal_ml" validate:"required,gt=0,lt=20000"`
}

type WaterIntakeRequest struct {
	IntakeML int `json:"intake_ml" validate:"required,gt=0,lt=10000"`
}
