package payment_gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"medmarket-service/internal/app/config"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/requests"
	"medmarket-service/internal/pkg/dto/responses"
	"medmarket-service/internal/pkg/exceptions"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	initializePath    = "/transaction/initialize"
	verifyPathFormat  = "/transaction/verify/%s"
	gatewayErrorField = "message"
)

type paystackService struct {
	BaseUrl    string
	SecretKey  string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewPaystackService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	timeout := time.Duration(internalConfig.PaymentGateway.RequestTimeoutInSeconds) * time.Second
	return &paystackService{
		BaseUrl:   strings.TrimRight(internalConfig.PaymentGateway.BaseUrl, "/"),
		SecretKey: internalConfig.PaymentGateway.SecretKey,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Log: logger,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *paystackService) InitializeTransaction(ctx context.Context, request *requests.PaymentInitialization) (*responses.PaymentInitialization, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("paystackService.InitializeTransaction called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentReferenceKey, request.Reference),
		zap.Int64(constvars.LoggingAmountKey, request.AmountKobo),
	)

	body, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	headers := map[string]string{}
	if request.IdempotencyKey != "" {
		headers[constvars.HeaderIdempotencyKey] = request.IdempotencyKey
	}

	data, err := s.do(ctx, constvars.MethodPost, s.BaseUrl+initializePath, body, headers)
	if err != nil {
		s.Log.Error("paystackService.InitializeTransaction error calling gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentReferenceKey, request.Reference),
			zap.Error(err),
		)
		return nil, err
	}

	result := new(responses.PaymentInitialization)
	if err := json.Unmarshal(data, result); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "payment gateway initialize")
	}
	if result.Reference == "" {
		result.Reference = request.Reference
	}

	s.Log.Info("paystackService.InitializeTransaction succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentReferenceKey, result.Reference),
	)
	return result, nil
}

func (s *paystackService) VerifyTransaction(ctx context.Context, reference string) (*responses.PaymentVerification, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("paystackService.VerifyTransaction called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentReferenceKey, reference),
	)

	endpoint := s.BaseUrl + fmt.Sprintf(verifyPathFormat, url.PathEscape(reference))
	data, err := s.do(ctx, constvars.MethodGet, endpoint, nil, nil)
	if err != nil {
		s.Log.Error("paystackService.VerifyTransaction error calling gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentReferenceKey, reference),
			zap.Error(err),
		)
		return nil, err
	}

	result := new(responses.PaymentVerification)
	if err := json.Unmarshal(data, result); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "payment gateway verify")
	}

	s.Log.Info("paystackService.VerifyTransaction succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentReferenceKey, reference),
		zap.String(constvars.LoggingGatewayStatusKey, result.Status),
	)
	return result, nil
}

// do sends the request and returns the envelope data. Non-2xx responses and envelopes with
// status false are reported as gateway errors carrying the gateway message.
func (s *paystackService) do(ctx context.Context, method, endpoint string, body []byte, headers map[string]string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+s.SecretKey)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, context.DeadlineExceeded
		}
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "payment gateway")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := gjson.GetBytes(raw, gatewayErrorField).String()
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, exceptions.ErrPaymentGateway(fmt.Errorf("status %d: %s", resp.StatusCode, message))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, "payment gateway")
	}
	if !env.Status {
		return nil, exceptions.ErrPaymentGateway(fmt.Errorf("gateway rejected request: %s", env.Message))
	}
	return env.Data, nil
}
