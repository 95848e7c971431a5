package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog/log"

	"github.com/navarrastar/contact-ingest/pkg/middleware"
	"github.com/navarrastar/contact-ingest/pkg/models"
)

// HandleLambda serves the contact endpoint behind API Gateway. The body
// arrives as a string, base64-encoded for binary media types.
func (h *Handlers) HandleLambda(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	logger := log.With().Str("request_id", req.RequestContext.RequestID).Logger()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With().Str("aws_request_id", lc.AwsRequestID).Logger()
	}
	ctx = logger.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Recovered from panic")
			resp = lambdaJSON(http.StatusInternalServerError, models.FaultBody(panicError(r)))
			err = nil
		}
	}()

	switch req.HTTPMethod {
	case http.MethodOptions:
		return lambdaResponse(http.StatusOK, ""), nil
	case http.MethodPost:
	default:
		return lambdaJSON(http.StatusMethodNotAllowed, map[string]interface{}{"error": "Method not allowed"}), nil
	}

	raw := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, decodeErr := base64.StdEncoding.DecodeString(req.Body)
		if decodeErr != nil {
			logger.Warn().Err(decodeErr).Msg("Error decoding base64 body")
		}
		raw = decoded
	}

	res := h.contactService.Ingest(ctx, models.ParseBody(raw))
	return lambdaJSON(res.Status, res.Body), nil
}

func lambdaJSON(status int, body map[string]interface{}) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(models.FaultBody(err))
	}
	resp := lambdaResponse(status, string(payload))
	resp.Headers["Content-Type"] = "application/json; charset=utf-8"
	return resp
}

func lambdaResponse(status int, body string) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(middleware.CORSHeaders)+1)
	for k, v := range middleware.CORSHeaders {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
