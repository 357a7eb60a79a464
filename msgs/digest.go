package msgs

import "encoding/binary"

// MsgID returns the deterministic identifier for a message, computed from
// the canonicalized part sequence only. Description and meaning do not
// participate, so the identifier the generated code looks up stays stable
// across documentation edits.
func MsgID(parts []Part) uint64 {
	return ComputeMsgID(IcuString(parts), "")
}

// ComputeMsgID computes the 64-bit message identifier for the given content.
// If meaning is non-empty, the content fingerprint is rotated one bit to the
// left and the meaning fingerprint is added, so equal texts with different
// meanings get distinct identifiers. The result is masked to 63 bits.
func ComputeMsgID(content string, meaning string) uint64 {
	fp := Fingerprint(content)
	if meaning != "" {
		fp = (fp << 1) | ((fp >> 63) & 1)
		fp += Fingerprint(meaning)
	}
	return fp & 0x7fffffffffffffff
}

// Fingerprint computes the 64-bit fingerprint of the given string, as two
// 32-bit Jenkins-style hashes over the UTF-8 bytes.
func Fingerprint(str string) uint64 {
	utf8 := []byte(str)
	length := len(utf8)

	hi := hash32(utf8, length, 0)
	lo := hash32(utf8, length, 102072)

	if hi == 0 && (lo == 0 || lo == 1) {
		hi = hi ^ 0x130f9bef
		lo = lo ^ uint32(0x6b5f56d8)
	}

	return (uint64(hi) << 32) | uint64(lo)
}

// hash32 computes a 32-bit hash
func hash32(data []byte, length int, c int) uint32 {
	var a, b uint32 = 0x9e3779b9, 0x9e3779b9
	var c32 uint32 = uint32(c)
	index := 0

	end := length - 12
	for index <= end {
		a += getUint32LE(data, index)
		b += getUint32LE(data, index+4)
		c32 += getUint32LE(data, index+8)
		res := mix(a, b, c32)
		a, b, c32 = res[0], res[1], res[2]
		index += 12
	}

	remainder := length - index

	// the first byte of c is reserved for the length
	c32 += uint32(length)

	if remainder >= 4 {
		a += getUint32LE(data, index)
		index += 4

		if remainder >= 8 {
			b += getUint32LE(data, index)
			index += 4

			// Partial 32-bit word for c
			if remainder >= 9 {
				c32 += uint32(data[index]) << 8
				index++
			}
			if remainder >= 10 {
				c32 += uint32(data[index]) << 16
				index++
			}
			if remainder == 11 {
				c32 += uint32(data[index]) << 24
				index++
			}
		} else {
			// Partial 32-bit word for b
			if remainder >= 5 {
				b += uint32(data[index])
				index++
			}
			if remainder >= 6 {
				b += uint32(data[index]) << 8
				index++
			}
			if remainder == 7 {
				b += uint32(data[index]) << 16
				index++
			}
		}
	} else {
		// Partial 32-bit word for a
		if remainder >= 1 {
			a += uint32(data[index])
			index++
		}
		if remainder >= 2 {
			a += uint32(data[index]) << 8
			index++
		}
		if remainder == 3 {
			a += uint32(data[index]) << 16
			index++
		}
	}

	return mix(a, b, c32)[2]
}

// mix mixes three 32-bit values
func mix(a, b, c uint32) [3]uint32 {
	a -= b
	a -= c
	a ^= c >> 13
	b -= c
	b -= a
	b ^= a << 8
	c -= a
	c -= b
	c ^= b >> 13
	a -= b
	a -= c
	a ^= c >> 12
	b -= c
	b -= a
	b ^= a << 16
	c -= a
	c -= b
	c ^= b >> 5
	a -= b
	a -= c
	a ^= c >> 3
	b -= c
	b -= a
	b ^= a << 10
	c -= a
	c -= b
	c ^= b >> 15
	return [3]uint32{a, b, c}
}

// getUint32LE gets a uint32 in little-endian format
func getUint32LE(data []byte, index int) uint32 {
	if index+4 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint32(data[index:])
}
