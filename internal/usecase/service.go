package usecase

import (
	"time"

	"heartcoach/internal/data/repository"
	"heartcoach/internal/metrics"
	"heartcoach/pkg/events"
	"heartcoach/pkg/kvstore"
	"heartcoach/pkg/sender"
	"heartcoach/pkg/storage"
	"heartcoach/pkg/utils"

	"go.uber.org/zap"
)

// Deps are the outbound adapters shared by the services. Uploader may be nil.
type Deps struct {
	Store     kvstore.Store
	Email     sender.EmailSender
	SMS       sender.SMSSender
	Publisher events.Publisher
	Uploader  storage.Uploader
	Metrics   metrics.Recorder
	Now       func() time.Time
}

type Service struct {
	OTP      OTPService
	Auth     AuthService
	User     UserService
	Medicine MedicineService
	Intake   IntakeService
	Vital    VitalService
	Water    WaterService
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	otp := NewOTPService(deps.Store, deps.Email, deps.SMS, deps.Metrics, config.OTP, deps.Now, log)
	return &Service{
		OTP:      otp,
		Auth:     NewAuthService(repo, otp, config, deps.Now, log),
		User:     NewUserService(repo, deps.Now, log),
		Medicine: NewMedicineService(repo, config, deps.Now, log),
		Intake:   NewIntakeService(repo, deps.Publisher, deps.Metrics, config, deps.Now, log),
		Vital:    NewVitalService(repo.Vital, deps.Uploader, config, deps.Now, log),
		Water:    NewWaterService(repo.Water, config, deps.Now, log),
	}
}
