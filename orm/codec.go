package orm

import (
	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
)

// cdc encodes every model stored by the orm. Models are plain structs with
// exported fields, so no type registration is required.
var cdc = amino.NewCodec()

// modelVersion is the first byte of every serialized model. Amino encodes a
// model holding only zero values as an empty slice and stores refuse to
// keep empty values, so the prefix also guarantees a non empty result.
const modelVersion byte = 1

// Validater is implemented by every model that can check its own
// consistency before it is written.
type Validater interface {
	Validate() error
}

// Marshal serializes a model into its binary representation.
func Marshal(obj interface{}) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(obj)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", obj, err)
	}
	return append([]byte{modelVersion}, raw...), nil
}

// Unmarshal loads a model from its binary representation. dst must be a
// pointer.
func Unmarshal(raw []byte, dst interface{}) error {
	if len(raw) == 0 {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: empty value", dst)
	}
	if raw[0] != modelVersion {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: unknown version %d", dst, raw[0])
	}
	if err := cdc.UnmarshalBinaryBare(raw[1:], dst); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", dst, err)
	}
	return nil
}
