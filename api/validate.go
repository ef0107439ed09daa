package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/recurrence-api/schema"
)

const (
	minSeverity = 0
	maxSeverity = 10
	minAge      = 0
	maxAge      = 130
	maxWeightKg = 500
)

func requireString(field string, values ...string) (string, error) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v, nil
		}
	}
	return "", &schema.ValidationError{Field: field, Reason: "required"}
}

// requireInt accepts a json number holding an integral value within [min, max].
func requireInt(field string, raw interface{}, min, max int) (int, error) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, &schema.ValidationError{Field: field, Reason: "required"}
	case float64:
		f = v
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, &schema.ValidationError{Field: field, Reason: "not a number"}
		}
		f = n
	default:
		return 0, &schema.ValidationError{Field: field, Reason: fmt.Sprintf("must be an integer, got %T", raw)}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, &schema.ValidationError{Field: field, Reason: "must be an integer"}
	}
	if f < float64(min) || f > float64(max) {
		return 0, &schema.ValidationError{Field: field, Reason: fmt.Sprintf("must be between %d and %d", min, max)}
	}
	return int(f), nil
}

func optionalWeight(weight *float64) error {
	if weight == nil {
		return nil
	}
	if *weight <= 0 || *weight > maxWeightKg {
		return &schema.ValidationError{Field: "weight", Reason: fmt.Sprintf("must be between 0 and %d kg", maxWeightKg)}
	}
	return nil
}

func abortWithValidation(c *gin.Context, err error) {
	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		abortWithEncoding(c, http.StatusBadRequest, fieldError(errorInvalidParameters, ve.Field, ve.Reason), err)
		return
	}
	abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
}
