package coexstats

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

// Ordered so that longer signatures are checked first.
var byteCodeSigs = []struct {
	DataType
	sig []byte
}{
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
	{DataTypeZ, []byte{0x1f, 0x9d}},
}

// DetectDataType identifies a compression format from the leading bytes of a
// stream. Byte code signatures from https://stackoverflow.com/a/19127748/199475
func DetectDataType(head []byte) DataType {
	for _, v := range byteCodeSigs {
		if bytes.HasPrefix(head, v.sig) {
			return v.DataType
		}
	}

	return DataTypeNoCompression
}

// MaybeDecompress peeks at the start of r and, if it carries a known
// compression signature, wraps it in the matching decompressor. Unlike a
// seek-and-rewind approach this works for network streams such as Google
// Storage readers.
func MaybeDecompress(r io.Reader) (io.Reader, DataType, error) {
	br := bufio.NewReader(r)

	// Short files are fine: Peek returns what it has along with io.EOF.
	head, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, DataTypeInvalid, err
	}

	dt := DetectDataType(head)

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		return gz, dt, err
	case DataTypeZip:
		// Only the first archive member is read.
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		return zr, dt, nil
	case DataTypeBZip2:
		return bzip2.NewReader(br), dt, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, err
		}
		return reader, dt, nil
	case DataTypeZ:
		z, err := zlib.NewReader(br)
		return z, dt, err
	}

	return br, dt, nil
}
