package extraction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

// Legacy Word (.doc) files are OLE2 compound files. The text lives in the
// WordDocument stream and is addressed through the piece table stored in the
// 0Table or 1Table stream.

const (
	wordMagic      = 0xA5EC
	fibMinLength   = 0x01AA
	fibFlagsOffset = 0x0A
	fibCcpText     = 0x4C
	fibFcClx       = 0x01A2
	fibLcbClx      = 0x01A6
	fibTableStream = 0x0200
	fibEncrypted   = 0x0100
	pieceCompress  = 0x40000000
)

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

var le = binary.LittleEndian

// decodeDOC extracts the main document text of a Word 97-2003 file.
func decodeDOC(data []byte) (string, error) {
	if len(data) < 512 || !bytes.HasPrefix(data, oleSignature) {
		return "", errors.New("missing OLE2 compound file signature")
	}

	streams, err := readWordStreams(data)
	if err != nil {
		return "", err
	}

	wd, ok := streams["WordDocument"]
	if !ok {
		return "", errors.New(`stream "WordDocument" not found`)
	}
	if len(wd) < fibMinLength || le.Uint16(wd) != wordMagic {
		return "", errors.New("WordDocument stream has no valid file information block")
	}

	flags := le.Uint16(wd[fibFlagsOffset:])
	if flags&fibEncrypted != 0 {
		return "", errors.New("document is encrypted")
	}
	tableName := "0Table"
	if flags&fibTableStream != 0 {
		tableName = "1Table"
	}
	table, ok := streams[tableName]
	if !ok {
		return "", fmt.Errorf("stream %q not found", tableName)
	}

	fcClx := uint64(le.Uint32(wd[fibFcClx:]))
	lcbClx := uint64(le.Uint32(wd[fibLcbClx:]))
	if lcbClx == 0 || fcClx+lcbClx > uint64(len(table)) {
		return "", errors.New("piece table out of range")
	}

	pieces, err := parsePieceTable(table[fcClx : fcClx+lcbClx])
	if err != nil {
		return "", err
	}

	remaining := int(le.Uint32(wd[fibCcpText:]))
	var sb strings.Builder
	for _, p := range pieces {
		if remaining <= 0 {
			break
		}
		n := min(p.cpEnd-p.cpStart, remaining)
		if n <= 0 {
			continue
		}
		if err := p.appendText(&sb, wd, n); err != nil {
			return "", err
		}
		remaining -= n
	}

	return cleanWordText(sb.String()), nil
}

// readWordStreams loads the WordDocument and table streams of a compound file.
func readWordStreams(data []byte) (map[string][]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open compound file: %w", err)
	}

	streams := make(map[string][]byte, 3)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "WordDocument", "0Table", "1Table":
		default:
			continue
		}
		if _, dup := streams[entry.Name]; dup {
			continue
		}
		buf, err := io.ReadAll(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s stream: %w", entry.Name, err)
		}
		streams[entry.Name] = buf
	}
	return streams, nil
}

type piece struct {
	cpStart    int
	cpEnd      int
	offset     int
	compressed bool
}

func (p piece) appendText(sb *strings.Builder, wd []byte, n int) error {
	if p.compressed {
		if p.offset+n > len(wd) {
			return errors.New("piece extends past WordDocument stream")
		}
		text, err := charmap.Windows1252.NewDecoder().Bytes(wd[p.offset : p.offset+n])
		if err != nil {
			return fmt.Errorf("failed to decode piece: %w", err)
		}
		sb.Write(text)
		return nil
	}

	if p.offset+2*n > len(wd) {
		return errors.New("piece extends past WordDocument stream")
	}
	text, err := decodeUTF16(wd[p.offset:p.offset+2*n], false)
	if err != nil {
		return fmt.Errorf("failed to decode piece: %w", err)
	}
	sb.WriteString(text)
	return nil
}

// parsePieceTable reads the Clx structure: optional Prc entries followed by a Pcdt.
func parsePieceTable(clx []byte) ([]piece, error) {
	for i := 0; i < len(clx); {
		switch clx[i] {
		case 0x01:
			if i+3 > len(clx) {
				return nil, errors.New("truncated property modifier in piece table")
			}
			i += 3 + int(le.Uint16(clx[i+1:]))
		case 0x02:
			if i+5 > len(clx) {
				return nil, errors.New("truncated piece table")
			}
			lcb := int(le.Uint32(clx[i+1:]))
			plc := clx[i+5:]
			if lcb > len(plc) {
				return nil, errors.New("truncated piece descriptors")
			}
			return decodePlcPcd(plc[:lcb])
		default:
			return nil, fmt.Errorf("unexpected piece table entry 0x%02x", clx[i])
		}
	}
	return nil, errors.New("piece table not found")
}

func decodePlcPcd(plc []byte) ([]piece, error) {
	n := (len(plc) - 4) / 12
	if n <= 0 || 4*(n+1)+8*n != len(plc) {
		return nil, errors.New("malformed piece descriptors")
	}

	pieces := make([]piece, 0, n)
	for k := 0; k < n; k++ {
		pcd := plc[4*(n+1)+8*k:]
		fc := le.Uint32(pcd[2:])
		compressed := fc&pieceCompress != 0
		offset := int(fc &^ (pieceCompress | 0x80000000))
		if compressed {
			offset /= 2
		}
		pieces = append(pieces, piece{
			cpStart:    int(le.Uint32(plc[4*k:])),
			cpEnd:      int(le.Uint32(plc[4*(k+1):])),
			offset:     offset,
			compressed: compressed,
		})
	}
	return pieces, nil
}

// cleanWordText maps Word's in-band control characters to plain text and
// drops field instructions, keeping field results.
func cleanWordText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	// one entry per open field; true once the separator has been seen
	var fields []bool
	for _, r := range s {
		switch r {
		case 0x13:
			fields = append(fields, false)
			continue
		case 0x14:
			if len(fields) > 0 {
				fields[len(fields)-1] = true
			}
			continue
		case 0x15:
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if len(fields) > 0 && !fields[len(fields)-1] {
			continue
		}

		switch r {
		case '\r', 0x07, 0x0B, 0x0C:
			sb.WriteByte('\n')
		case 0x1E:
			sb.WriteByte('-')
		case 0x1F:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
