package storage

// Serializer converts values of one type to and from bytes.
type Serializer[T any] interface {
	Serialize(value T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}
