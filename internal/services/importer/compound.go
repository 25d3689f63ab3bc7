package importer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

const (
	oleSectorSize     = 512
	oleMiniSectorSize = 64
	oleDirEntry       = 128
	oleEndOfChain     = 0xFFFFFFFE
	oleMaxColumns     = 256
)

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// checkCompoundFile walks every sector chain the BIFF reader follows when it opens the workbook
// stream, then screens the stream's records. The reader exits the process on an out-of-range
// sector id and never returns on a cyclic chain, so both are rejected here first.
func checkCompoundFile(data []byte) error {
	if len(data) < oleSectorSize || !bytes.Equal(data[:8], oleSignature) {
		return errors.New("not an OLE2 compound file")
	}
	le := binary.LittleEndian
	if shift := le.Uint16(data[0x1E:]); shift != 9 {
		return fmt.Errorf("unsupported sector shift %d", shift)
	}
	sector := func(id uint32) []byte {
		buf := make([]byte, oleSectorSize)
		if off := int64(oleSectorSize) * (int64(id) + 1); off < int64(len(data)) {
			copy(buf, data[off:])
		}
		return buf
	}
	values := func(sec []byte, n int) []uint32 {
		out := make([]uint32, n)
		for i := range out {
			out[i] = le.Uint32(sec[4*i:])
		}
		return out
	}

	var fat []uint32
	for i, n := uint32(0), min(le.Uint32(data[0x2C:]), 109); i < n; i++ {
		fat = append(fat, values(sector(le.Uint32(data[0x4C+4*i:])), oleSectorSize/4)...)
	}
	seen := map[uint32]bool{}
	for sid := le.Uint32(data[0x44:]); sid != oleEndOfChain; {
		if seen[sid] {
			return errors.New("cyclic master allocation table")
		}
		seen[sid] = true
		sec := sector(sid)
		for _, id := range values(sec, oleSectorSize/4-1) {
			fat = append(fat, values(sector(id), oleSectorSize/4)...)
		}
		sid = le.Uint32(sec[oleSectorSize-4:])
	}
	var minifat []uint32
	if start := le.Uint32(data[0x3C:]); start != oleEndOfChain {
		count := le.Uint32(data[0x40:])
		if int64(count) > int64(len(data)/oleSectorSize) {
			return fmt.Errorf("short allocation table of %d sectors", count)
		}
		for i := uint32(0); i < count; i++ {
			minifat = append(minifat, values(sector(start), oleSectorSize/4-1)...)
		}
	}

	dirChain, err := walkChain(fat, le.Uint32(data[0x30:]))
	if err != nil {
		return fmt.Errorf("directory: %w", err)
	}
	var book, root []byte
dir:
	for _, sid := range dirChain {
		sec := sector(sid)
		for off := 0; off < oleSectorSize; off += oleDirEntry {
			entry := sec[off : off+oleDirEntry]
			if entry[66] == 0 {
				break dir
			}
			switch dirEntryName(entry) {
			case "Workbook", "Book":
				book = entry
			case "Root Entry":
				root = entry
			}
		}
	}
	if book == nil {
		return nil
	}
	start, size := le.Uint32(book[116:]), le.Uint32(book[120:])
	var stream []byte
	if size >= le.Uint32(data[0x38:]) {
		chain, err := walkChain(fat, start)
		if err != nil {
			return err
		}
		for _, sid := range chain {
			stream = append(stream, sector(sid)...)
		}
		return checkRecords(stream)
	}

	if root == nil {
		return errors.New("short stream without root entry")
	}
	container, err := walkChain(fat, le.Uint32(root[116:]))
	if err != nil {
		return fmt.Errorf("short stream container: %w", err)
	}
	var mini []byte
	for _, sid := range container {
		mini = append(mini, sector(sid)...)
	}
	chain, err := walkChain(minifat, start)
	if err != nil {
		return err
	}
	for _, sid := range chain {
		buf := make([]byte, oleMiniSectorSize)
		if off := int64(sid) * oleMiniSectorSize; off < int64(len(mini)) {
			copy(buf, mini[off:])
		}
		stream = append(stream, buf...)
	}
	return checkRecords(stream)
}

// checkRecords bounds what the reader allocates from record headers: the shared string count
// and cell columns past the 256 a BIFF8 sheet holds.
func checkRecords(stream []byte) error {
	le := binary.LittleEndian
	for off := 0; off+4 <= len(stream); {
		id, size := le.Uint16(stream[off:]), int(le.Uint16(stream[off+2:]))
		body := stream[off+4 : min(off+4+size, len(stream))]
		off += 4 + size

		switch id {
		case 0xFC: // SST
			if len(body) >= 8 && int64(le.Uint32(body[4:])) > int64(len(stream)/3) {
				return errors.New("shared string table larger than the workbook")
			}
		case 0x06, 0xFD, 0x201, 0x203, 0x204, 0x27E: // single cells
			if len(body) >= 4 && le.Uint16(body[2:]) >= oleMaxColumns {
				return errors.New("cell outside the sheet columns")
			}
		case 0xBD, 0xBE: // MULRK, MULBLANK
			if len(body) >= 6 && (le.Uint16(body[2:]) >= oleMaxColumns || le.Uint16(body[len(body)-2:]) >= oleMaxColumns) {
				return errors.New("cell outside the sheet columns")
			}
		}
	}
	return nil
}

// walkChain follows a sector chain to its end marker.
func walkChain(table []uint32, start uint32) ([]uint32, error) {
	var chain []uint32
	seen := map[uint32]bool{}
	for sid := start; sid != oleEndOfChain; sid = table[sid] {
		if int(sid) >= len(table) {
			return nil, fmt.Errorf("sector %d outside the allocation table", sid)
		}
		if seen[sid] {
			return nil, fmt.Errorf("cyclic chain at sector %d", sid)
		}
		seen[sid] = true
		chain = append(chain, sid)
	}
	return chain, nil
}

func dirEntryName(entry []byte) string {
	size := int(binary.LittleEndian.Uint16(entry[64:]))
	if size < 2 || size > 64 {
		return ""
	}
	units := make([]uint16, size/2-1)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(entry[2*i:])
	}
	return string(utf16.Decode(units))
}
