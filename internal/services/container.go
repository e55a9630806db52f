package services

import (
	"homebase/internal/config"
	"homebase/internal/domain"
	"homebase/internal/logging"
	"homebase/internal/realtime"
	"homebase/internal/repository/sqlite"
	"homebase/internal/validation"
)

// NewServiceContainer wires every service over one repository
func NewServiceContainer(repo sqlite.Repository, cfg *config.Config, bus realtime.Bus, log *logging.Logger) *ServiceContainer {
	validator := validation.NewValidatorWithConfig(cfg)
	limit := 0
	if cfg != nil {
		limit = cfg.Feedback.DefaultLimit
	}

	return &ServiceContainer{
		TaskService:     NewTaskService(repo, validator),
		ExpenseService:  NewExpenseService(repo, validator),
		CartService:     NewCartService(repo, domain.DefaultCatalog(), validator),
		FeedbackService: NewFeedbackService(repo, bus, validator, limit, log),
	}
}
