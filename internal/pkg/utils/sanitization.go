package utils

import (
	"medmarket-service/internal/pkg/dto/requests"
	"strings"
)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func SanitizeInitiateCheckoutRequest(input *requests.InitiateCheckout) {
	input.Email = normalizeEmail(input.Email)
	input.Phone = NormalizePhone(input.Phone)
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	input.IdempotencyKey = strings.TrimSpace(input.IdempotencyKey)
}

func SanitizeRetrieveSessionRequest(input *requests.RetrieveSession) {
	input.Email = normalizeEmail(input.Email)
	input.Phone = NormalizePhone(input.Phone)
	input.CheckoutSessionID = strings.TrimSpace(input.CheckoutSessionID)
}

func SanitizeResumeCheckoutRequest(input *requests.ResumeCheckout) {
	input.Email = normalizeEmail(input.Email)
}

func SanitizeConfirmOrderRequest(input *requests.ConfirmOrder) {
	input.Reference = strings.TrimSpace(input.Reference)
	input.CheckoutSessionID = strings.TrimSpace(input.CheckoutSessionID)
}

func SanitizeLoginRequest(input *requests.Login) {
	input.Email = normalizeEmail(input.Email)
}

func SanitizeCreateUserRequest(input *requests.CreateUser) {
	input.Email = normalizeEmail(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Role = strings.TrimSpace(strings.ToLower(input.Role))
	input.ProviderID = strings.TrimSpace(input.ProviderID)
}

func SanitizeRegisterProviderRequest(input *requests.RegisterProvider) {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	input.State = strings.TrimSpace(input.State)
	input.LGA = strings.TrimSpace(input.LGA)
	input.Ward = strings.TrimSpace(input.Ward)
	input.OperatingHours = strings.TrimSpace(input.OperatingHours)
	input.Email = normalizeEmail(input.Email)
	input.Phone = NormalizePhone(input.Phone)
}
