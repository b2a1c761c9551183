package response

type WaterGoalResponse struct {
	GoalML int `json:"goal_ml"`
}

type WaterStatusResponse struct {
	Date          string `json:"date"`
	GoalML        int    `json:"goal_ml"`
	TotalIntakeML int    `json:"total_intake_ml"`
	RemainingML   int    `json:"remaining_ml"`
}
