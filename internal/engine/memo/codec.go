package memo

import (
	"bytes"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/memo/internal/core/domain"
)

// EncodeEntry serializes an entry for the entry store.
func EncodeEntry(entry *domain.Entry) ([]byte, error) {
	raw, err := msgpack.Marshal(entry)
	if err != nil {
		return nil, errors.Join(domain.ErrEntryEncodeFailed, err)
	}
	return raw, nil
}

// DecodeEntry parses a stored entry. Integers in the result decode as int64
// or uint64 and byte strings as []byte, whatever their encoded width.
func DecodeEntry(raw []byte) (*domain.Entry, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.UseLooseInterfaceDecoding(true)

	var entry domain.Entry
	if err := dec.Decode(&entry); err != nil {
		return nil, errors.Join(domain.ErrEntryDecodeFailed, err)
	}
	return &entry, nil
}
