package packfile

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/xerrors"
)

// ErrDeltaInvalid is returned when a delta instruction stream is
// malformed or its copy instructions fall outside the base object.
var ErrDeltaInvalid = xerrors.New("invalid delta")

// applyDelta reconstructs an object's content by replaying a delta
// instruction stream against its base content.
//
// A delta is:
//
//	{source size varint}{target size varint}{instructions}
//
// Each instruction is either a COPY (MSB set: copy a run of bytes from
// the base) or an INSERT (MSB unset: the byte itself is the number of
// literal bytes that follow, to be copied from the delta verbatim).
func applyDelta(base, delta []byte) ([]byte, error) {
	sourceSize, n, err := readSize(delta)
	if err != nil {
		return nil, xerrors.Errorf("could not read delta source size: %w", err)
	}
	if int(sourceSize) != len(base) {
		return nil, xerrors.Errorf("base size mismatch: delta expects %d, got %d: %w", sourceSize, len(base), ErrDeltaInvalid)
	}

	targetSize, m, err := readSize(delta[n:])
	if err != nil {
		return nil, xerrors.Errorf("could not read delta target size: %w", err)
	}

	instructions := delta[n+m:]
	out := bytes.NewBuffer(make([]byte, 0, targetSize))

	for i := 0; i < len(instructions); {
		instr := instructions[i]
		i++

		if isMSBSet(instr) {
			offset, size, err := readCopyInstruction(instr, instructions[i:])
			if err != nil {
				return nil, err
			}
			i += copyInstructionArgLen(instr)

			if int(offset)+int(size) > len(base) {
				return nil, xerrors.Errorf("copy instruction out of bounds: %w", ErrDeltaInvalid)
			}
			out.Write(base[offset : offset+size])
			continue
		}

		// INSERT: instr itself is the number of literal bytes to copy
		// from the delta stream. A zero-size insert is invalid.
		if instr == 0 {
			return nil, xerrors.Errorf("zero-size insert instruction: %w", ErrDeltaInvalid)
		}
		end := i + int(instr)
		if end > len(instructions) {
			return nil, xerrors.Errorf("insert instruction out of bounds: %w", ErrDeltaInvalid)
		}
		out.Write(instructions[i:end])
		i = end
	}

	if out.Len() != int(targetSize) {
		return nil, xerrors.Errorf("target size mismatch: expected %d, got %d: %w", targetSize, out.Len(), ErrDeltaInvalid)
	}
	return out.Bytes(), nil
}

// copyInstructionArgLen returns the number of argument bytes (offset +
// size) that follow a COPY instruction's leading byte.
func copyInstructionArgLen(instr byte) int {
	n := 0
	for shift := uint(0); shift < 7; shift++ {
		if instr&(1<<shift) != 0 {
			n++
		}
	}
	return n
}

// readCopyInstruction decodes the variable-length offset and size that
// follow a COPY instruction's leading byte. Bits 0-3 select which of
// the 4 offset bytes are present; bits 4-6 select which of the 3 size
// bytes are present. A size of 0 means 0x10000 (64KiB), since that
// value otherwise could not be encoded in 3 bytes.
func readCopyInstruction(instr byte, args []byte) (offset, size uint32, err error) {
	offsetBytes := make([]byte, 4)
	n := 0
	for bit := 0; bit < 4; bit++ {
		if instr&(1<<uint(bit)) != 0 {
			if n >= len(args) {
				return 0, 0, xerrors.Errorf("truncated copy offset: %w", ErrDeltaInvalid)
			}
			offsetBytes[bit] = args[n]
			n++
		}
	}
	offset = binary.LittleEndian.Uint32(offsetBytes)

	sizeBytes := make([]byte, 4)
	for bit := 0; bit < 3; bit++ {
		if instr&(1<<uint(bit+4)) != 0 {
			if n >= len(args) {
				return 0, 0, xerrors.Errorf("truncated copy size: %w", ErrDeltaInvalid)
			}
			sizeBytes[bit] = args[n]
			n++
		}
	}
	size = binary.LittleEndian.Uint32(sizeBytes)
	if size == 0 {
		size = 0x10000
	}

	return offset, size, nil
}
