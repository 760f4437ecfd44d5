// Package romio acquires ROM images: it reads local files, fetches remote
// catalog entries over HTTP and unpacks compressed archives (ZIP, 7z, RAR,
// gzip and tar.gz) down to the first Game Boy image inside.
package romio

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

// MaxROMSize caps decompressed images.
const MaxROMSize = 8 * 1024 * 1024

// Extensions are the member names accepted inside archives.
var Extensions = []string{".gb", ".gbc"}

var (
	ErrNoROMFile         = errors.New("no ROM file found in archive")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum size limit")
)

type format int

const (
	formatRaw format = iota
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f format) String() string {
	return [...]string{"raw", "zip", "7z", "gzip", "rar"}[f]
}

// detect prefers magic bytes and falls back to the file name. Anything
// unrecognised is treated as a raw image.
func detect(data []byte, name string) format {
	switch {
	case bytes.HasPrefix(data, magicZIP), bytes.HasPrefix(data, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(data, magicRAR):
		return formatRAR
	case bytes.HasPrefix(data, magic7z):
		return format7z
	case bytes.HasPrefix(data, magicGzip):
		return formatGzip
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}
	return formatRaw
}

// Unpack returns the ROM image contained in data together with its display
// name. Raw images are returned unchanged.
func Unpack(data []byte, name string) ([]byte, string, error) {
	if len(data) > MaxROMSize {
		return nil, "", ErrFileTooLarge
	}
	switch f := detect(data, name); f {
	case formatRaw:
		return data, path.Base(name), nil
	case formatZIP:
		return unzip(data)
	case format7z:
		return un7z(data)
	case formatRAR:
		return unrar(data)
	case formatGzip:
		return gunzip(data, name)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

func unzip(data []byte) ([]byte, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
		}
		rom, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from zip: %w", f.Name, err)
		}
		return rom, path.Base(f.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func un7z(data []byte) ([]byte, string, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isROMFile(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in 7z: %w", f.Name, err)
		}
		rom, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from 7z: %w", f.Name, err)
		}
		return rom, path.Base(f.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func unrar(data []byte) ([]byte, string, error) {
	r, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if header.IsDir || !isROMFile(header.Name) {
			continue
		}
		rom, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from rar: %w", header.Name, err)
		}
		return rom, path.Base(header.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func gunzip(data []byte, name string) ([]byte, string, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return untar(gr)
	}
	rom, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}
	base := path.Base(name)
	if strings.HasSuffix(strings.ToLower(base), ".gz") {
		base = base[:len(base)-3]
	}
	return rom, base, nil
}

func untar(r io.Reader) ([]byte, string, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !isROMFile(header.Name) {
			continue
		}
		rom, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from tar: %w", header.Name, err)
		}
		return rom, path.Base(header.Name), nil
	}
	return nil, "", ErrNoROMFile
}

func isROMFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
