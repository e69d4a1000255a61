package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/api/middleware"
	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/internal/pipeline"
	"github.com/OldStager01/cardio-risk/pkg/validation"
)

const kindInvalidRequest = "invalid_request"

type ErrorResponse struct {
	Error   string `json:"error" example:"sex \"Unknown\": invalid category"`
	Kind    string `json:"kind" example:"invalid_category"`
	Field   string `json:"field,omitempty" example:"sex"`
	TraceID string `json:"trace_id,omitempty"`
}

// errorResponse maps an inference error to its HTTP status. Input errors are
// 400 with the offending field; everything else is an opaque 500.
func errorResponse(err error) (int, ErrorResponse) {
	var bounds *validation.BoundsError
	if errors.As(err, &bounds) {
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Kind:  "out_of_range",
			Field: string(bounds.Feature()),
		}
	}

	var field *encoder.FieldError
	if errors.As(err, &field) {
		return http.StatusBadRequest, ErrorResponse{
			Error: field.Error(),
			Kind:  pipeline.Kind(err),
			Field: string(field.Feature),
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: "inference failed",
		Kind:  pipeline.Kind(err),
	}
}

func writeError(c *gin.Context, err error) {
	status, resp := errorResponse(err)
	resp.TraceID = middleware.GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).WithError(err).Error("Inference failed")
	}
	_ = c.Error(err)
	c.JSON(status, resp)
}

func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   err.Error(),
		Kind:    kindInvalidRequest,
		TraceID: middleware.GetTraceID(c),
	})
}
