package cart

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cespare/xxhash"
)

// buildROM makes a synthetic ROM with a valid header & checksums.
func buildROM(title string, cartType, romSizeCode, ramSizeCode byte, size int) []byte {
	rom := make([]byte, size)
	copy(rom[0x0104:0x0104+len(nintendoLogo)], nintendoLogo[:])

	tbytes := []byte(title)
	if len(tbytes) > 16 {
		tbytes = tbytes[:16]
	}
	copy(rom[0x0134:0x0144], tbytes)

	rom[0x0144], rom[0x0145] = '0', '1'
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	rom[0x014B] = 0x33
	rom[0x014C] = 0x01
	fixChecksums(rom)
	return rom
}

func fixChecksums(rom []byte) {
	var hsum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		hsum = hsum - rom[addr] - 1
	}
	rom[0x014D] = hsum

	var gsum uint16
	for i := 0; i < len(rom); i++ {
		if i == 0x014E || i == 0x014F {
			continue
		}
		gsum += uint16(rom[i])
	}
	binary.BigEndian.PutUint16(rom[0x014E:0x0150], gsum)
}

func TestParseHeader_Basic(t *testing.T) {
	rom := buildROM("TEST", 0x01, 0x01, 0x02, 64*1024)

	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.Title != "TEST" {
		t.Fatalf("Title got %q want %q", h.Title, "TEST")
	}
	if h.CartType != 0x01 {
		t.Fatalf("CartType got %#02x", h.CartType)
	}
	if !h.LogoOK {
		t.Fatalf("LogoOK = false")
	}
	if !HeaderChecksumOK(rom) {
		t.Fatalf("HeaderChecksumOK = false, want true")
	}
}

func TestHeaderChecksum_Bad(t *testing.T) {
	rom := buildROM("TEST", 0x00, 0x00, 0x00, 32*1024)
	rom[0x0134] ^= 0xFF
	if HeaderChecksumOK(rom) {
		t.Fatalf("HeaderChecksumOK = true, want false after corruption")
	}
}

func TestParseHeader_ShortROM(t *testing.T) {
	short := make([]byte, 0x140)
	if _, err := ParseHeader(short); !errors.Is(err, ErrShortROM) {
		t.Fatalf("got %v, want ErrShortROM", err)
	}
}

func TestParseHeader_CGBTitle(t *testing.T) {
	rom := buildROM("POCKETMONSTERSX", 0x1B, 0x05, 0x03, 1024*1024)
	rom[0x0143] = 0xC0
	fixChecksums(rom)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatal(err)
	}
	if h.Title != "POCKETMONSTERSX" {
		t.Fatalf("title %q", h.Title)
	}
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name     string
		cartType byte
		romCode  byte
		ramCode  byte
		size     int
		kind     Kind
		banks    int
		ram      int
	}{
		{"rom only", 0x00, 0x00, 0x00, 32 * 1024, ROMOnly, 2, 0},
		{"mbc1 ram", 0x03, 0x01, 0x02, 64 * 1024, MBC1, 4, 8 * 1024},
		{"mbc2", 0x06, 0x02, 0x00, 128 * 1024, MBC2, 8, 512},
		{"mbc3", 0x13, 0x05, 0x03, 1024 * 1024, MBC3, 64, 32 * 1024},
		{"mbc5", 0x1B, 0x06, 0x04, 2 * 1024 * 1024, MBC5, 128, 128 * 1024},
		{"pocket camera", 0xFC, 0x00, 0x00, 32 * 1024, Unknown, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rom := buildROM("GAME", tc.cartType, tc.romCode, tc.ramCode, tc.size)
			d := Detect(rom)
			if d.Kind != tc.kind {
				t.Fatalf("kind got %s want %s", d.Kind, tc.kind)
			}
			if d.ROMBanks != tc.banks || d.ROMBytes != tc.banks*16*1024 {
				t.Fatalf("banks got %d (%d bytes) want %d", d.ROMBanks, d.ROMBytes, tc.banks)
			}
			if d.RAMBytes != tc.ram {
				t.Fatalf("ram got %d want %d", d.RAMBytes, tc.ram)
			}
			if !d.HeaderOK || d.Title != "GAME" {
				t.Fatalf("unexpected descriptor %s", d)
			}
			if d.Digest != xxhash.Sum64(rom) {
				t.Fatalf("digest mismatch")
			}
		})
	}
}

func TestDetect_ShortImageFallsBackToROMOnly(t *testing.T) {
	rom := make([]byte, 0x100)
	d := Detect(rom)
	if d.Kind != ROMOnly || d.HeaderOK {
		t.Fatalf("got %s, want ROM-only with bad header", d)
	}
	if d.ROMBanks != 1 || d.Size != 0x100 {
		t.Fatalf("banks %d size %d", d.ROMBanks, d.Size)
	}
}

func TestDetect_EmptyImage(t *testing.T) {
	d := Detect(nil)
	if d.Kind != ROMOnly || d.ROMBanks != 0 {
		t.Fatalf("got %s", d)
	}
	if len(d.Fingerprint()) != 16 {
		t.Fatalf("fingerprint %q", d.Fingerprint())
	}
}
