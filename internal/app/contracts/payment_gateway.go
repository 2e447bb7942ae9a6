package contracts

import (
	"context"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
)

type PaymentGatewayService interface {
	InitializeTransaction(ctx context.Context, request *requests.PaymentInitialization) (*responses.PaymentInitialization, error)
	VerifyTransaction(ctx context.Context, reference string) (*responses.PaymentVerification, error)
}
