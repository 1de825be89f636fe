// Package errors contains domain-specific errors for the media domain
package errors

import (
	pkgerrors "github.com/tilontare9353-art/Telagram-bot/pkg/errors"
)

// Domain errors for media operations
var (
	ErrUnknownPlatform  = pkgerrors.NewValidationError("unsupported platform")
	ErrExtractionFailed = pkgerrors.NewExternalError("metadata extraction failed")
	ErrNoEligibleFormat = pkgerrors.NewNotFoundError("no eligible format under the size limit")
	ErrSessionNotFound  = pkgerrors.NewNotFoundError("pending selection not found")
	ErrDeliveryFailed   = pkgerrors.NewExternalError("delivery failed")
	ErrSizeExceeded     = pkgerrors.NewTooLargeError("downloaded file exceeds the size limit")
	ErrUnknownAction    = pkgerrors.NewValidationError("unknown callback action")
	ErrSenderNotSet     = pkgerrors.NewInternalError("telegram sender is not set")
)
