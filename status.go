package storage

import (
	"errors"
	"fmt"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
)

// Status codes reported by the host in sdk.Status. Older hosts report success as 0.
const (
	hostStatusLegacyOK = int32(0)
	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

// CheckStatus converts a host status into an error. A nil status is an invalid
// response. A missing entry yields ErrHostNotFound so callers can map it to
// their own not-found error.
func CheckStatus(status *sdkproto.Status) error {
	if status == nil {
		return ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusLegacyOK, hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusMissing:
		return ErrHostNotFound
	case hostStatusBadInput, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return errors.Join(ErrHostError, errors.New(detail))
	default:
		return errors.Join(ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", code))
	}
}
