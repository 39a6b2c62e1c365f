package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-observations/internal/api/shared/errors"
	"github.com/feral-file/ff-observations/internal/logger"
)

// ErrorPresenter formats errors in a consistent way matching the REST API format
// This function is called by gqlgen for every error
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if !errors.As(err, &gqlErr) {
		gqlErr = &gqlerror.Error{
			Message: err.Error(),
		}
	}

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		// Parse and validation errors from gqlgen itself carry no cause
		if gqlErr.Unwrap() == nil {
			return gqlErr
		}
		return handleInternalError(ctx, err, gqlErr)
	}

	switch apiErr.Code {
	case apierrors.ErrCodeInternalError, apierrors.ErrCodeServiceError, apierrors.ErrCodeDatabaseError:
		return handleInternalError(ctx, err, gqlErr)
	}

	gqlErr.Message = apiErr.Message
	gqlErr.Extensions = map[string]interface{}{
		"code":    string(apiErr.Code),
		"message": apiErr.Message,
	}
	if apiErr.Details != "" {
		gqlErr.Message = fmt.Sprintf("%s: %s", apiErr.Message, apiErr.Details)
		gqlErr.Extensions["details"] = apiErr.Details
	}
	return gqlErr
}

// handleInternalError logs the cause and hides it from the client
func handleInternalError(ctx context.Context, err error, gqlErr *gqlerror.Error) *gqlerror.Error {
	logger.ErrorCtx(ctx, err, zap.String("error", "Unhandled GraphQL error"))
	return &gqlerror.Error{
		Message: "Internal server error",
		Path:    gqlErr.Path,
		Extensions: map[string]interface{}{
			"code":    string(apierrors.ErrCodeInternalError),
			"message": "Internal server error",
		},
	}
}

// RecoverFunc handles panics in resolvers
func RecoverFunc(ctx context.Context, err interface{}) error {
	logger.ErrorCtx(ctx, fmt.Errorf("panic: %v", err), zap.Any("panic", err))
	return apierrors.NewInternalError("Internal server error")
}
