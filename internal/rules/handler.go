package rules

import (
	"compass/internal/config_handler"
	"compass/internal/logger"
	"compass/pkg/models"
)

type Handler = config_handler.Handler

func NewHandler(service *Service, log logger.Logger) *Handler {
	return config_handler.NewHandlerWithReloader(
		models.EventTypeProfileRuleUpdated,
		models.ServiceTypeProfile,
		service,
		log,
	)
}
