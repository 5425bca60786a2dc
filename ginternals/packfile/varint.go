package packfile

// isMSBSet checks if the MSB (most significant bit) of a byte is set.
func isMSBSet(b byte) bool {
	return b >= 0b_1000_0000
}

// unsetMSB clears the MSB of a byte.
func unsetMSB(b byte) byte {
	return b & 0b_0111_1111
}

// readSize reads a little-endian, MSB-continuation-encoded variable
// length integer, such as the trailing bytes of an object's size
// header or a delta's source/target size. The first byte of data is
// the least significant chunk; callers that have already consumed 4
// bits of size from a leading header byte shift the result left by 4
// themselves.
func readSize(data []byte) (size uint64, bytesRead int, err error) {
	for i, b := range data {
		bytesRead++
		chunk := unsetMSB(b)
		size = insertLittleEndian7(size, chunk, uint8(i))
		if !isMSBSet(b) {
			break
		}
	}
	if bytesRead == 0 || isMSBSet(data[bytesRead-1]) {
		return 0, 0, ErrIntOverflow
	}
	return size, bytesRead, nil
}

// readDeltaOffset reads a big-endian, MSB-continuation-encoded
// negative offset, as used by OFS_DELTA objects. The encoding is
// off-by-one: before each continuation chunk is shifted in, 1 is added
// to the value read so far.
func readDeltaOffset(data []byte) (offset uint64, bytesRead int, err error) {
	for i, b := range data {
		bytesRead++
		if i > 0 {
			offset++
		}
		offset = insertBigEndian7(offset, unsetMSB(b))
		if !isMSBSet(b) {
			break
		}
	}
	if bytesRead == 0 || isMSBSet(data[bytesRead-1]) {
		return 0, 0, ErrIntOverflow
	}
	return offset, bytesRead, nil
}

// insertLittleEndian7 inserts the 7 low bits of chunk into base at the
// given 7-bit-wide position, building the number little-endian (first
// chunk read is the least significant).
func insertLittleEndian7(base uint64, chunk, position uint8) uint64 {
	return (uint64(chunk) << (position * 7)) | base
}

// insertBigEndian7 appends the 7 low bits of chunk to the right of
// base, building the number big-endian (first chunk read is the most
// significant).
func insertBigEndian7(base uint64, chunk uint8) uint64 {
	return base<<7 | uint64(chunk)
}
