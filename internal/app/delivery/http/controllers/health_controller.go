package controllers

import (
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/utils"
	"net/http"
)

type HealthController struct {
	InternalConfig *config.InternalConfig
}

func NewHealthController(internalConfig *config.InternalConfig) *HealthController {
	return &HealthController{InternalConfig: internalConfig}
}

func (ctrl *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccess, responses.HealthCheck{
		Status:  "ok",
		Version: ctrl.InternalConfig.App.Version,
	})
}
