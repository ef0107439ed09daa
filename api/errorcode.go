package api

import "github.com/bitmark-inc/recurrence-api/store"

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",
		1012: "Missing required fields",

		1400: store.ErrWatermarkUnavailable.Error(),
		1401: "symptom store unavailable",
		1402: "alert store unavailable",
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorMissingFields      = errorJSON(1012)

	errorWatermarkUnavailable = errorJSON(1400)
	errorSymptomUnavailable   = errorJSON(1401)
	errorAlertUnavailable     = errorJSON(1402)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// fieldError attaches the offending field to an error object
func fieldError(obj ErrorResponse, field, reason string) ErrorResponse {
	obj.Field = field
	obj.Reason = reason
	return obj
}
