package ckbtype

import (
	"encoding/binary"
	"errors"
)

var errShortMoleculeBuffer = errors.New("ckbtype: malformed molecule buffer")

// This file implements just enough of CKB's molecule serialization to make
// Transaction.Serialize bit-consistent with the rest of this package's size
// math (ckbtype.CellOutput.OccupiedCapacity, FeeRate.Fee and the balancer's
// "12 extra bytes" constant in txbuilder/balancer.go all assume these exact
// layouts). See https://github.com/nervosnetwork/molecule for the upstream
// format this mirrors.

// packBytes encodes a molecule "Bytes" (dynamic-length byte vector): a
// 4-byte little-endian length header followed by the raw bytes.
func packBytes(b []byte) []byte {
	out := make([]byte, 4+len(b))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(b)))
	copy(out[4:], b)
	return out
}

// packFixVec encodes a molecule fixed-size-element vector: a 4-byte
// item count followed by the concatenated, equal-length items. Used for
// Vec<Byte32> and any Vec<T> where T is a fixed-size struct (CellInput,
// CellDep).
func packFixVec(items [][]byte) []byte {
	n := len(items)
	itemLen := 0
	if n > 0 {
		itemLen = len(items[0])
	}
	out := make([]byte, 4+n*itemLen)
	binary.LittleEndian.PutUint32(out[0:4], uint32(n))
	pos := 4
	for _, it := range items {
		copy(out[pos:], it)
		pos += len(it)
	}
	return out
}

// packDynamic encodes both molecule "table" (named, possibly dynamic-size
// fields) and "dynvec" (dynamic-size-element vector) containers: they
// share one wire layout — a 4-byte total size, one 4-byte offset per
// element counted from the start of the container, then the concatenated
// element bytes. Appending one more element therefore always costs
// (4 bytes of new offset) + (len of the new element's own bytes).
func packDynamic(fields [][]byte) []byte {
	n := len(fields)
	headerLen := 4 + 4*n
	offsets := make([]uint32, n)
	cursor := uint32(headerLen)
	for i, f := range fields {
		offsets[i] = cursor
		cursor += uint32(len(f))
	}
	total := cursor
	out := make([]byte, total)
	binary.LittleEndian.PutUint32(out[0:4], total)
	for i, off := range offsets {
		binary.LittleEndian.PutUint32(out[4+4*i:8+4*i], off)
	}
	pos := headerLen
	for _, f := range fields {
		copy(out[pos:], f)
		pos += len(f)
	}
	return out
}

// packUint64 encodes a molecule Uint64 struct (8-byte little-endian).
func packUint64(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

// packUint32 encodes a molecule Uint32 struct (4-byte little-endian).
func packUint32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

// unpackDynamic is the inverse of packDynamic: given the total-size +
// offsets-table encoding, it returns the raw bytes of each field. Used to
// read back a WitnessArgs this package itself produced; it is not a
// general molecule decoder.
func unpackDynamic(b []byte) ([][]byte, error) {
	if len(b) < 4 {
		return nil, errShortMoleculeBuffer
	}
	total := binary.LittleEndian.Uint32(b[0:4])
	if int(total) != len(b) {
		return nil, errShortMoleculeBuffer
	}
	if total == 4 {
		return nil, nil
	}
	firstOffset := binary.LittleEndian.Uint32(b[4:8])
	n := (firstOffset - 4) / 4
	offsets := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		offsets[i] = binary.LittleEndian.Uint32(b[4+4*i : 8+4*i])
	}
	fields := make([][]byte, n)
	for i := uint32(0); i < n; i++ {
		start := offsets[i]
		end := total
		if i+1 < n {
			end = offsets[i+1]
		}
		if end < start || int(end) > len(b) {
			return nil, errShortMoleculeBuffer
		}
		fields[i] = b[start:end]
	}
	return fields, nil
}

// unpackBytesOpt is the inverse of serializeBytesOpt: an empty field means
// molecule's BytesOpt None, otherwise the field is a packBytes blob.
func unpackBytesOpt(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) < 4 {
		return nil, errShortMoleculeBuffer
	}
	n := binary.LittleEndian.Uint32(b[0:4])
	if int(4+n) != len(b) {
		return nil, errShortMoleculeBuffer
	}
	return b[4:], nil
}
