// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"

	"github.com/chronokings/huntercoin-sub000/internal/chainhash"
	"github.com/pkg/errors"
)

var littleEndian = binary.LittleEndian

// MaxVarIntPayload is the maximum payload size for a variable length
// integer.
const MaxVarIntPayload = 9

// readElement reads the fixed-width little-endian encoding of element from r.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int32(littleEndian.Uint32(buf[:]))
		return nil
	case *uint32:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint32(buf[:])
		return nil
	case *int64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = int64(littleEndian.Uint64(buf[:]))
		return nil
	case *uint64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return err
		}
		*e = littleEndian.Uint64(buf[:])
		return nil
	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err
	default:
		return errors.Errorf("readElement: unhandled type %T", element)
	}
}

// writeElement writes the fixed-width little-endian encoding of element to w.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		var buf [4]byte
		littleEndian.PutUint32(buf[:], uint32(e))
		_, err := w.Write(buf[:])
		return err
	case uint32:
		var buf [4]byte
		littleEndian.PutUint32(buf[:], e)
		_, err := w.Write(buf[:])
		return err
	case int64:
		var buf [8]byte
		littleEndian.PutUint64(buf[:], uint64(e))
		_, err := w.Write(buf[:])
		return err
	case uint64:
		var buf [8]byte
		littleEndian.PutUint64(buf[:], e)
		_, err := w.Write(buf[:])
		return err
	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err
	default:
		return errors.Errorf("writeElement: unhandled type %T", element)
	}
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, rejecting non-canonical encodings the way the script engine
// rejects non-minimal pushes.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}
	discriminant := prefix[0]

	switch discriminant {
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv := littleEndian.Uint64(buf[:])
		if rv < 0x100000000 {
			return 0, errors.Errorf("non-canonical varint %x", rv)
		}
		return rv, nil

	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv := littleEndian.Uint32(buf[:])
		if rv < 0x10000 {
			return 0, errors.Errorf("non-canonical varint %x", rv)
		}
		return uint64(rv), nil

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		rv := littleEndian.Uint16(buf[:])
		if rv < 0xfd {
			return 0, errors.Errorf("non-canonical varint %x", rv)
		}
		return uint64(rv), nil

	default:
		return uint64(discriminant), nil
	}
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}

	if val <= 0xffff {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)
		return err
	}

	if val <= 0xffffffff {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)
		return err
	}

	buf := make([]byte, 9)
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarBytes reads a variable length byte array, erroring if the encoded
// length exceeds maxAllowed.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, errors.Errorf("%s is larger than the max allowed size (got %d, max %d)", fieldName, count, maxAllowed)
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteVarBytes serializes a variable length byte array to w as a varint
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
