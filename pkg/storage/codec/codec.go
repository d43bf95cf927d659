// Package codec provides storage.Serializer implementations.
//
// In-memory tiers only record the serializers attached to a store
// configuration. They are used by tiers that move entries out of the Go heap.
package codec

import (
	"bytes"
	"fmt"

	"github.com/marmos91/dittokv/pkg/storage"
	xdr "github.com/rasky/go-xdr/xdr2"
	"gopkg.in/yaml.v3"
)

// XDR encodes values with RFC 4506 External Data Representation.
// T must be a type the XDR encoder understands: fixed-size integers, bool,
// floats, string, []byte, arrays, slices and structs of those.
type XDR[T any] struct{}

var _ storage.Serializer[string] = XDR[string]{}

// Serialize encodes value.
func (XDR[T]) Serialize(value T) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &value); err != nil {
		return nil, fmt.Errorf("xdr encode %T: %w", value, err)
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a value produced by Serialize.
func (XDR[T]) Deserialize(data []byte) (T, error) {
	var value T
	if _, err := xdr.Unmarshal(bytes.NewReader(data), &value); err != nil {
		return value, fmt.Errorf("xdr decode %T: %w", value, err)
	}
	return value, nil
}

// YAML encodes values as YAML documents.
type YAML[T any] struct{}

var _ storage.Serializer[string] = YAML[string]{}

// Serialize encodes value.
func (YAML[T]) Serialize(value T) ([]byte, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("yaml encode %T: %w", value, err)
	}
	return data, nil
}

// Deserialize decodes a value produced by Serialize.
func (YAML[T]) Deserialize(data []byte) (T, error) {
	var value T
	if err := yaml.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("yaml decode %T: %w", value, err)
	}
	return value, nil
}

// Bytes passes byte slices through unchanged.
type Bytes struct{}

var _ storage.Serializer[[]byte] = Bytes{}

// Serialize returns a copy of value.
func (Bytes) Serialize(value []byte) ([]byte, error) {
	return bytes.Clone(value), nil
}

// Deserialize returns a copy of data.
func (Bytes) Deserialize(data []byte) ([]byte, error) {
	return bytes.Clone(data), nil
}
