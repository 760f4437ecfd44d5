package cart

import (
	"encoding/binary"
	"errors"
	"strings"
)

const headerEnd = 0x014F

// ErrShortROM is returned by ParseHeader when the image ends before 0x0150.
var ErrShortROM = errors.New("ROM too small to contain header")

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is the raw cartridge header at 0x0100-0x014F.
type Header struct {
	Title          string
	CGBFlag        byte   // 0x0143
	SGBFlag        byte   // 0x0146
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F
	LogoOK         bool
}

// ParseHeader reads the header fields. It only fails on images too short to
// hold a header; everything else is reported as-is.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, ErrShortROM
	}

	// CGB carts reuse the last title byte as a flag.
	rawTitle := rom[0x0134:0x0144]
	if rom[0x0143]&0x80 != 0 {
		rawTitle = rawTitle[:15]
	}
	title := strings.TrimRight(string(rawTitle), "\x00 ")
	title = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7E {
			return -1
		}
		return r
	}, title)

	return &Header{
		Title:          title,
		CGBFlag:        rom[0x0143],
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
		LogoOK:         [48]byte(rom[0x0104:0x0134]) == nintendoLogo,
	}, nil
}

// HeaderChecksumOK verifies the byte at 0x014D against 0x0134-0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

func decodeROMSize(code byte) (size, banks int) {
	switch {
	case code <= 0x08:
		banks = 2 << code
		return banks * 16 * 1024, banks
	case code == 0x52:
		return 1152 * 1024, 72
	case code == 0x53:
		return 1280 * 1024, 80
	case code == 0x54:
		return 1536 * 1024, 96
	default:
		return 0, 0
	}
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 32 * 1024
	case 0x04:
		return 128 * 1024
	case 0x05:
		return 64 * 1024
	default:
		return 0
	}
}

func kindOf(code byte) Kind {
	switch code {
	case 0x00, 0x08, 0x09:
		return ROMOnly
	case 0x01, 0x02, 0x03:
		return MBC1
	case 0x05, 0x06:
		return MBC2
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return MBC3
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return MBC5
	default:
		return Unknown
	}
}
