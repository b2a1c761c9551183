package repository

import (
	"heartcoach/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	UserInfo UserInfoRepository
	Session  SessionRepository
	Medicine MedicineRepository
	Schedule ScheduleRepository
	Intake   IntakeRepository
	Vital    VitalRepository
	Water    WaterRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		UserInfo: NewUserInfoRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Medicine: NewMedicineRepository(db, log),
		Schedule: NewScheduleRepository(db, log),
		Intake:   NewIntakeRepository(db, log),
		Vital:    NewVitalRepository(db, log),
		Water:    NewWaterRepository(db, log),
	}
}
