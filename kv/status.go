package kv

import (
	"errors"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	sdk "github.com/tarmac-project/storage"
)

// checkStatus maps the host's not-found status onto ErrKeyNotFound.
func checkStatus(status *sdkproto.Status) error {
	err := sdk.CheckStatus(status)
	if errors.Is(err, sdk.ErrHostNotFound) {
		return errors.Join(ErrKeyNotFound, err)
	}
	return err
}
