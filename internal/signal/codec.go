package signal

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// BlobContentType is the only accepted content type for uploaded signals.
const BlobContentType = "application/octet-stream"

// ErrOddLength is returned for blobs that do not hold whole int16 samples.
var ErrOddLength = errors.New("signal blob has odd length")

// DecodeADC decodes a blob of little-endian int16 ADC counts.
func DecodeADC(data []byte) ([]int16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w %d", ErrOddLength, len(data))
	}
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return out, nil
}

// EncodeADC is the inverse of DecodeADC.
func EncodeADC(adc []int16) []byte {
	out := make([]byte, 2*len(adc))
	for i, v := range adc {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}
