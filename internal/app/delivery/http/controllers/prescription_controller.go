package controllers

import (
	"context"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/delivery/http/middlewares"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/utils"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type PrescriptionController struct {
	Log                 *zap.Logger
	PrescriptionUsecase contracts.PrescriptionUsecase
}

var (
	prescriptionControllerInstance *PrescriptionController
	oncePrescriptionController     sync.Once
)

func NewPrescriptionController(logger *zap.Logger, prescriptionUsecase contracts.PrescriptionUsecase) *PrescriptionController {
	oncePrescriptionController.Do(func() {
		prescriptionControllerInstance = &PrescriptionController{
			Log:                 logger,
			PrescriptionUsecase: prescriptionUsecase,
		}
	})
	return prescriptionControllerInstance
}

func (ctrl *PrescriptionController) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	pagination := utils.BuildPaginationRequest(r)
	request := &requests.ListPrescriptions{
		Status:     r.URL.Query().Get(constvars.QueryParamStatus),
		Pagination: *pagination,
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, total, err := ctrl.PrescriptionUsecase.ListPrescriptions(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	paginationData := utils.BuildPaginationResponse(total, pagination.Page, pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.PrescriptionsFetchedSuccess, paginationData, response)
}

func (ctrl *PrescriptionController) ReviewPrescription(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)
	session, ok := middlewares.GetSession(r.Context())
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrTokenMissing(nil))
		return
	}
	prescriptionID, err := uuidParam(r, constvars.URLParamID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ReviewPrescription)
	if err := decodeAndValidate(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.PrescriptionID = prescriptionID
	request.ReviewerID = session.UserID

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.PrescriptionUsecase.ReviewPrescription(ctx, request)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "prescription_reviewed", requestID,
		zap.String(constvars.LoggingPrescriptionIDKey, prescriptionID),
		zap.String("prescription_status", response.Status),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PrescriptionReviewedSuccess, response)
}

func (ctrl *PrescriptionController) GetFileURL(w http.ResponseWriter, r *http.Request) {
	prescriptionID, err := uuidParam(r, constvars.URLParamID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := ctrl.PrescriptionUsecase.GetFileURL(ctx, prescriptionID)
	if err != nil {
		writeError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PrescriptionFileURLSuccess, response)
}
