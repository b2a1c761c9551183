package usecase

import (
	"context"
	"fmt"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/dto/response"
	"heartcoach/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WaterService interface {
	SetGoal(ctx context.Context, userID uuid.UUID, goalML int) (*response.WaterGoalResponse, error)
	LogIntake(ctx context.Context, userID uuid.UUID, intakeML int) (*response.WaterStatusResponse, error)
	Status(ctx context.Context, userID uuid.UUID) (*response.WaterStatusResponse, error)
	Reset(ctx context.Context, userID uuid.UUID) error
}

type waterService struct {
	repo   repository.WaterRepository
	config *utils.Config
	now    func() time.Time
	log    *zap.Logger
}

func NewWaterService(repo repository.WaterRepository, config *utils.Config, now func() time.Time, log *zap.Logger) WaterService {
	return &waterService{
		repo:   repo,
		config: config,
		now:    now,
		log:    log.With(zap.String("service", "water")),
	}
}

func (s *waterService) today() time.Time {
	return utils.DateOf(s.now(), s.config.Location())
}

func (s *waterService) SetGoal(ctx context.Context, userID uuid.UUID, goalML int) (*response.WaterGoalResponse, error) {
	if goalML <= 0 {
		return nil, invalid("goal_ml must be greater than 0")
	}

	goal := &entity.WaterGoal{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		UserID: userID,
		GoalML: goalML,
	}
	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}

	return &response.WaterGoalResponse{GoalML: goal.GoalML}, nil
}

func (s *waterService) LogIntake(ctx context.Context, userID uuid.UUID, intakeML int) (*response.WaterStatusResponse, error) {
	if intakeML <= 0 {
		return nil, invalid("intake_ml must be greater than 0")
	}

	today := s.today()
	total, err := s.repo.AddIntake(ctx, userID, today, intakeML)
	if err != nil {
		return nil, err
	}

	goal, err := s.repo.LatestGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find water goal: %w", err)
	}
	goalML := 0
	if goal != nil {
		goalML = goal.GoalML
	}
	return waterStatus(today, goalML, total), nil
}

func (s *waterService) Status(ctx context.Context, userID uuid.UUID) (*response.WaterStatusResponse, error) {
	goal, err := s.repo.LatestGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find water goal: %w", err)
	}
	if goal == nil {
		return nil, notFound("Water goal not set")
	}

	today := s.today()
	intake, err := s.repo.FindIntake(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("find water intake: %w", err)
	}
	total := 0
	if intake != nil {
		total = intake.IntakeML
	}
	return waterStatus(today, goal.GoalML, total), nil
}

func (s *waterService) Reset(ctx context.Context, userID uuid.UUID) error {
	return s.repo.ResetIntake(ctx, userID, s.today())
}

func waterStatus(date time.Time, goalML, total int) *response.WaterStatusResponse {
	return &response.WaterStatusResponse{
		Date:          date.Format(utils.DateLayout),
		GoalML:        goalML,
		TotalIntakeML: total,
		RemainingML:   max(0, goalML-total),
	}
}
