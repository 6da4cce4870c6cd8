// Package compression opens compressed inputs for scanning and writes
// compressed fixtures.
//
// # Overview
//
// Inputs are recognized by file extension first and by magic bytes
// second, so a renamed .gz file is still read correctly:
//   - Gzip and Deflate: github.com/klauspost/compress/{gzip,flate}
//   - Zstd: github.com/klauspost/compress/zstd
//   - Snappy and S2 framed streams: github.com/klauspost/compress/{snappy,s2}
//   - LZ4 frames: github.com/pierrec/lz4/v4
//
// Raw deflate has no magic number and is only recognized by extension.
//
// # Basic Usage
//
//	rc, alg, err := compression.Open("app.log.zst")
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
//	sc := bufio.NewScanner(rc)
//
//	w, err := compression.NewWriter(f, compression.LZ4, compression.Best)
package compression

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/rxpool/pkg/errors"
)

// Algorithm names a compression format.
type Algorithm string

const (
	// None is uncompressed data
	None Algorithm = "none"
	// Gzip is RFC 1952 gzip
	Gzip Algorithm = "gzip"
	// Snappy is the framed snappy stream format
	Snappy Algorithm = "snappy"
	// LZ4 is the LZ4 frame format
	LZ4 Algorithm = "lz4"
	// Zstd is zstandard
	Zstd Algorithm = "zstd"
	// S2 is the framed S2 stream format (reads snappy too)
	S2 Algorithm = "s2"
	// Deflate is raw RFC 1951 deflate
	Deflate Algorithm = "deflate"
)

// Level trades speed for ratio when writing.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

var extensions = map[string]Algorithm{
	".gz":      Gzip,
	".gzip":    Gzip,
	".zst":     Zstd,
	".zstd":    Zstd,
	".lz4":     LZ4,
	".sz":      Snappy,
	".snappy":  Snappy,
	".s2":      S2,
	".deflate": Deflate,
}

var magics = []struct {
	prefix []byte
	alg    Algorithm
}{
	{[]byte{0x1f, 0x8b}, Gzip},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
	{[]byte{0x04, 0x22, 0x4d, 0x18}, LZ4},
	{[]byte("\xff\x06\x00\x00sNaPpY"), Snappy},
	{[]byte("\xff\x06\x00\x00S2sTwO"), S2},
}

// maxMagic is how many leading bytes Detect may look at.
const maxMagic = 10

// ParseAlgorithm maps a name such as "zstd" to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(name)); alg {
	case None, Gzip, Snappy, LZ4, Zstd, S2, Deflate:
		return alg, nil
	case "":
		return None, nil
	default:
		return "", errors.New(errors.ErrorTypeValidation, "unknown compression algorithm").
			WithDetail("algorithm", name)
	}
}

// ParseLevel maps fastest, default, better or best to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "fastest":
		return Fastest, nil
	case "", "default":
		return Default, nil
	case "better":
		return Better, nil
	case "best":
		return Best, nil
	default:
		return 0, errors.New(errors.ErrorTypeValidation, "unknown compression level").
			WithDetail("level", name)
	}
}

// Detect picks the algorithm for a file from its extension, then from
// its first bytes. It returns None when neither is recognized.
func Detect(path string, header []byte) Algorithm {
	if alg, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return alg
	}
	for _, m := range magics {
		if bytes.HasPrefix(header, m.prefix) {
			return m.alg
		}
	}
	return None
}

// NewReader returns a reader that decompresses r. Closing it does not
// close r.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "invalid gzip header")
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "zstd reader")
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case Deflate:
		return flate.NewReader(r), nil
	default:
		return nil, errors.New(errors.ErrorTypeValidation, "unsupported compression algorithm").
			WithDetail("algorithm", string(alg))
	}
}

type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (f *fileReader) Close() error {
	err := f.ReadCloser.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// Open opens path and wraps it in the matching decompressor.
func Open(path string) (io.ReadCloser, Algorithm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrorTypeFile, "open input").
			WithDetail("path", path)
	}

	rc, alg, err := sniff(f, path)
	if err != nil {
		f.Close()
		if e, ok := err.(*errors.Error); ok {
			e.WithDetail("path", path)
		}
		return nil, alg, err
	}
	return &fileReader{ReadCloser: rc, file: f}, alg, nil
}

// Sniff wraps r in the decompressor its first bytes call for. Closing
// the result does not close r.
func Sniff(r io.Reader) (io.ReadCloser, Algorithm, error) {
	return sniff(r, "")
}

func sniff(r io.Reader, path string) (io.ReadCloser, Algorithm, error) {
	br := bufio.NewReader(r)
	header, _ := br.Peek(maxMagic)
	alg := Detect(path, header)
	rc, err := NewReader(br, alg)
	return rc, alg, err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns a writer that compresses into w. Close flushes the
// stream but does not close w.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		zw, err := gzip.NewWriterLevel(w, mapGzipLevel(level))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "gzip writer")
		}
		return zw, nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(mapZstdLevel(level)))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "zstd writer")
		}
		return enc, nil
	case LZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(mapLZ4Level(level))); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "lz4 writer")
		}
		return zw, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w), nil
	case Deflate:
		zw, err := flate.NewWriter(w, mapDeflateLevel(level))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "deflate writer")
		}
		return zw, nil
	default:
		return nil, errors.New(errors.ErrorTypeValidation, "unsupported compression algorithm").
			WithDetail("algorithm", string(alg))
	}
}

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapDeflateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}
