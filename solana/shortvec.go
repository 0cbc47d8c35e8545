package solana

import "fmt"

// Compact-u16 length encoding used by the transaction wire format.
// Values are encoded 7 bits at a time, least significant group first,
// with the high bit of each byte marking a continuation.

func encodeShortVecLen(n int) []byte {
	out := make([]byte, 0, 3)
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

func decodeShortVecLen(data []byte) (length int, bytesRead int, err error) {
	var v, shift uint
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, fmt.Errorf("short vec length truncated")
		}
		b := data[i]
		v |= uint(b&0x7f) << shift
		if b&0x80 == 0 {
			return int(v), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("short vec length too long")
}
