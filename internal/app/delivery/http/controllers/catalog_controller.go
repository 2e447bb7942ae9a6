package controllers

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type CatalogController struct {
	Log            *zap.Logger
	CatalogUsecase contracts.CatalogUsecase
}

var (
	catalogControllerInstance *CatalogController
	onceCatalogController     sync.Once
)

func NewCatalogController(logger *zap.Logger, catalogUsecase contracts.CatalogUsecase) *CatalogController {
	onceCatalogController.Do(func() {
		catalogControllerInstance = &CatalogController{
			Log:            logger,
			CatalogUsecase: catalogUsecase,
		}
	})
	return catalogControllerInstance
}

func (ctrl *CatalogController) CreateItem(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreateCatalogItem)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CatalogUsecase.CreateItem(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CatalogItemCreatedSuccess, response)
}

func (ctrl *CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	request := &requests.SearchCatalog{
		Kind:  r.URL.Query().Get(constvars.QueryParamKind),
		Query: strings.TrimSpace(r.URL.Query().Get(constvars.QueryParamQuery)),
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CatalogUsecase.Search(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CatalogItemsFetchedSuccess, response)
}

func (ctrl *CatalogController) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CatalogUsecase.GetItem(ctx, itemID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CatalogItemsFetchedSuccess, response)
}

func (ctrl *CatalogController) FindOfferings(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuidParam(r, constvars.URLParamItemID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	latitude, err := utils.ParseOptionalFloatQuery(r, constvars.QueryParamLatitude)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.QueryParamLatitude))
		return
	}
	longitude, err := utils.ParseOptionalFloatQuery(r, constvars.QueryParamLongitude)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.QueryParamLongitude))
		return
	}

	request := &requests.FindOfferings{
		ItemID:    itemID,
		Latitude:  latitude,
		Longitude: longitude,
	}
	if raw := r.URL.Query().Get(constvars.QueryParamRadiusKm); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, constvars.QueryParamRadiusKm))
			return
		}
		request.RadiusKm = radius
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.CatalogUsecase.FindOfferings(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.OfferingsFetchedSuccess, response)
}
