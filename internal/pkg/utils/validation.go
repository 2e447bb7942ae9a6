package utils

import (
	"errors"
	"medmarket-service/internal/pkg/constvars"
	"mime/multipart"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	validate *validator.Validate

	rePaymentReference = regexp.MustCompile(constvars.RegexPaymentReference)
	reTrackingCode     = regexp.MustCompile(constvars.RegexTrackingCode)
	rePhoneNumber      = regexp.MustCompile(constvars.RegexPhoneNumber)

	allowedPrescriptionExtensions = []string{".jpg", ".jpeg", ".png", ".pdf"}
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterValidation("service_kind", validateServiceKind)
	validate.RegisterValidation("fulfillment_type", validateFulfillmentType)
	validate.RegisterValidation("order_status", validateOrderStatus)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("payment_reference", validatePaymentReference)
	validate.RegisterValidation("tracking_code", validateTrackingCode)
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("review_status", validateReviewStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func decimalValue(field reflect.Value) interface{} {
	if value, ok := field.Interface().(decimal.Decimal); ok {
		return value.InexactFloat64()
	}
	return nil
}

func validateServiceKind(fl validator.FieldLevel) bool {
	switch constvars.ServiceKind(fl.Field().String()) {
	case constvars.ServiceKindMedication, constvars.ServiceKindDiagnostic, constvars.ServiceKindDiagnosticPackage:
		return true
	}
	return false
}

func validateFulfillmentType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.FulfillmentPickup, constvars.FulfillmentDelivery, constvars.FulfillmentWalkIn, constvars.FulfillmentHomeCollection:
		return true
	}
	return false
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	return status != constvars.OrderStatusCart && IsKnownOrderStatus(status)
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return rePhoneNumber.MatchString(NormalizePhone(fl.Field().String()))
}

func validatePaymentReference(fl validator.FieldLevel) bool {
	return IsValidPaymentReference(fl.Field().String())
}

func validateTrackingCode(fl validator.FieldLevel) bool {
	return IsValidTrackingCode(fl.Field().String())
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.RoleAdmin || value == constvars.RoleProviderStaff
}

func validateReviewStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.PrescriptionStatusVerified || value == constvars.PrescriptionStatusRejected
}

func IsValidPaymentReference(reference string) bool {
	return rePaymentReference.MatchString(reference)
}

func IsValidTrackingCode(code string) bool {
	return reTrackingCode.MatchString(code)
}

func ValidateUrlParamID(param string) error {
	if param == "" {
		return errors.New("parameter is missing from url path")
	}

	_, err := uuid.Parse(param)
	if err != nil {
		return err
	}

	return nil
}

// ValidatePrescriptionFile checks size and extension of an uploaded prescription or test order.
func ValidatePrescriptionFile(fileHeader *multipart.FileHeader, maxSizeInMegabytes int64) error {
	if fileHeader == nil {
		return nil
	}

	if fileHeader.Size > maxSizeInMegabytes*1024*1024 {
		return errors.New("file size exceeds the maximum limit")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range allowedPrescriptionExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.New("invalid file format")
}
