// Package guest exposes item operations as waPC guest functions.
package guest

import (
	"errors"
	"strconv"

	sdk "github.com/tarmac-project/storage"
	"github.com/tarmac-project/storage/items"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Exported function names.
const (
	FnGet    = "get_string"
	FnSet    = "set_string"
	FnUpdate = "update_string"
	FnDelete = "delete_string"
	FnClear  = "clear_storage"
	FnLength = "length"
)

var (
	// ErrInvalidPayload indicates a request body that is not the expected JSON.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrAccessorNil is returned by Functions when no accessor is provided.
	ErrAccessorNil = errors.New("accessor cannot be nil")
)

// Accessor is the subset of items.Accessor the guest functions need.
type Accessor interface {
	Read(key string) (string, error)
	Write(plaintext string) (items.Item, error)
	Update(key, plaintext string) error
	Delete(key string)
	Clear() error
	Len() (int, error)
}

// Functions returns the guest functions bound to a.
func Functions(a Accessor) (map[string]sdk.Function, error) {
	if a == nil {
		return nil, ErrAccessorNil
	}

	h := handlers{a: a}
	return map[string]sdk.Function{
		FnGet:    h.get,
		FnSet:    h.set,
		FnUpdate: h.update,
		FnDelete: h.delete,
		FnClear:  h.clear,
		FnLength: h.length,
	}, nil
}

type handlers struct {
	a Accessor
}

// get takes the key as the raw payload and returns the stored value.
func (h handlers) get(payload []byte) ([]byte, error) {
	v, err := h.a.Read(string(payload))
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

// set takes the plaintext as the raw payload and returns the item as JSON.
func (h handlers) set(payload []byte) ([]byte, error) {
	item, err := h.a.Write(string(payload))
	if err != nil {
		return nil, err
	}
	return EncodeItem(item)
}

// update takes {"key": ..., "data": ...}.
func (h handlers) update(payload []byte) ([]byte, error) {
	item, err := DecodeItem(payload)
	if err != nil {
		return nil, err
	}
	return nil, h.a.Update(item.Key, item.Data)
}

func (h handlers) delete(payload []byte) ([]byte, error) {
	h.a.Delete(string(payload))
	return nil, nil
}

func (h handlers) clear([]byte) ([]byte, error) {
	return nil, h.a.Clear()
}

func (h handlers) length([]byte) ([]byte, error) {
	n, err := h.a.Len()
	if err != nil {
		return nil, err
	}
	return strconv.AppendInt(nil, int64(n), 10), nil
}

// EncodeItem renders item as {"key":...,"data":...}.
func EncodeItem(item items.Item) ([]byte, error) {
	b, err := sjson.SetBytes([]byte(`{}`), "key", item.Key)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(b, "data", item.Data)
}

// DecodeItem parses {"key":...,"data":...}. Both fields must be strings and
// key must be non-empty.
func DecodeItem(payload []byte) (items.Item, error) {
	if !gjson.ValidBytes(payload) {
		return items.Item{}, errors.Join(ErrInvalidPayload, errors.New("malformed JSON"))
	}

	key := gjson.GetBytes(payload, "key")
	data := gjson.GetBytes(payload, "data")
	if key.Type != gjson.String || key.Str == "" {
		return items.Item{}, errors.Join(ErrInvalidPayload, errors.New("key must be a non-empty string"))
	}
	if data.Type != gjson.String {
		return items.Item{}, errors.Join(ErrInvalidPayload, errors.New("data must be a string"))
	}

	return items.Item{Key: key.Str, Data: data.Str}, nil
}
