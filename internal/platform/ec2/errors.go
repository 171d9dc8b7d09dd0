package ec2

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// API error codes that drive control flow in callers.
const (
	codeDuplicateName    = "InvalidAMIName.Duplicate"
	codeImageUnavailable = "InvalidAMIID.Unavailable"

	codeImageNotFound    = "InvalidAMIID.NotFound"
	codeVolumeNotFound   = "InvalidVolume.NotFound"
	codeSnapshotNotFound = "InvalidSnapshot.NotFound"
	codeInstanceNotFound = "InvalidInstanceID.NotFound"
)

// ErrDuplicateName indicates the requested image name is already taken in
// the target region. Callers retry with an incremented name.
var ErrDuplicateName = errors.New("image name already in use")

// ErrImageUnavailable indicates the image is not yet visible to the API,
// which happens while a cross-region copy is still materializing. Callers
// retry after a delay.
var ErrImageUnavailable = errors.New("image not yet available")

// IsDuplicateName reports whether the error is a duplicate image name,
// either already classified or as a raw API error.
func IsDuplicateName(err error) bool {
	return errors.Is(err, ErrDuplicateName) || isAPIErrorCode(err, codeDuplicateName)
}

// IsImageUnavailable reports whether the error indicates an image that is
// not yet visible to the API.
func IsImageUnavailable(err error) bool {
	return errors.Is(err, ErrImageUnavailable) || isAPIErrorCode(err, codeImageUnavailable)
}

// classify wraps known control-flow API errors with their sentinel so that
// callers can use errors.Is. Unknown errors pass through unchanged.
func classify(err error) error {
	switch {
	case isAPIErrorCode(err, codeDuplicateName):
		return fmt.Errorf("%w: %w", ErrDuplicateName, err)
	case isAPIErrorCode(err, codeImageUnavailable):
		return fmt.Errorf("%w: %w", ErrImageUnavailable, err)
	}
	return err
}

// isAPIErrorCode checks if the error is an AWS API error with one of the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.ErrorCode() == code {
				return true
			}
		}
	}
	return false
}
