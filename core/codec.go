package core

import (
	"errors"
	"math"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// ErrCodecLength indicates an encoded collection length larger than the input.
var ErrCodecLength = errors.New("encoded length exceeds buffer")

// Slice helpers shared by the record serializers. Lengths are written as
// unsigned varints followed by the elements.

func marshalLen(l int, bs []byte) int {
	return varint.Uint64.Marshal(uint64(l), bs)
}

func unmarshalLen(bs []byte) (l int, n int, err error) {
	var u uint64
	u, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	// every element occupies at least one byte
	if u > uint64(len(bs)-n) {
		return 0, n, ErrCodecLength
	}
	return int(u), n, nil
}

func sizeLen(l int) int {
	return varint.Uint64.Size(uint64(l))
}

func marshalInt(v int, bs []byte) int {
	return varint.Int64.Marshal(int64(v), bs)
}

func unmarshalInt(bs []byte) (v int, n int, err error) {
	var i int64
	i, n, err = varint.Int64.Unmarshal(bs)
	return int(i), n, err
}

func sizeInt(v int) int {
	return varint.Int64.Size(int64(v))
}

func marshalStrings(v []string, bs []byte) (n int) {
	n = marshalLen(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return
}

func unmarshalStrings(bs []byte) (v []string, n int, err error) {
	var l, n1 int
	l, n, err = unmarshalLen(bs)
	if err != nil {
		return
	}
	v = make([]string, l)
	for i := range v {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeStrings(v []string) (size int) {
	size = sizeLen(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return
}

func marshalUint32s(v []uint32, bs []byte) (n int) {
	n = marshalLen(len(v), bs)
	for _, u := range v {
		n += varint.Uint32.Marshal(u, bs[n:])
	}
	return
}

func unmarshalUint32s(bs []byte) (v []uint32, n int, err error) {
	var l, n1 int
	l, n, err = unmarshalLen(bs)
	if err != nil {
		return
	}
	v = make([]uint32, l)
	for i := range v {
		v[i], n1, err = varint.Uint32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func sizeUint32s(v []uint32) (size int) {
	size = sizeLen(len(v))
	for _, u := range v {
		size += varint.Uint32.Size(u)
	}
	return
}

func marshalFloat32s(v []float32, bs []byte) (n int) {
	n = marshalLen(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return
}

func unmarshalFloat32s(bs []byte) (v []float32, n int, err error) {
	var (
		l, n1 int
		bits  uint32
	)
	l, n, err = unmarshalLen(bs)
	if err != nil {
		return
	}
	v = make([]float32, l)
	for i := range v {
		bits, n1, err = varint.Uint32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v[i] = math.Float32frombits(bits)
	}
	return
}

func sizeFloat32s(v []float32) (size int) {
	size = sizeLen(len(v))
	for _, f := range v {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	return
}
