package compression

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rxpool/pkg/errors"
)

var sample = []byte(strings.Repeat("GET /index.html 200 1.2ms\nPOST /login 401 0.4ms\n", 50))

var allAlgorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

func compress(t *testing.T, alg Algorithm, level Level, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, alg, level)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestWriterReaderRoundTrip(t *testing.T) {
	for _, alg := range allAlgorithms {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				packed := compress(t, alg, level, sample)

				r, err := NewReader(bytes.NewReader(packed), alg)
				require.NoError(t, err)
				defer r.Close()
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				assert.Equal(t, sample, got)
			})
		}
	}
}

func TestDetectByMagic(t *testing.T) {
	for _, alg := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2} {
		packed := compress(t, alg, Default, sample)
		assert.Equal(t, alg, Detect("input.bin", packed), "algorithm %s", alg)
	}
	assert.Equal(t, None, Detect("input.bin", sample))
	assert.Equal(t, None, Detect("input.bin", nil))
}

func TestSniff(t *testing.T) {
	for _, alg := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2} {
		r, got, err := Sniff(bytes.NewReader(compress(t, alg, Fastest, sample)))
		require.NoError(t, err)
		assert.Equal(t, alg, got)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, sample, data, "algorithm %s", alg)
	}

	r, got, err := Sniff(bytes.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, None, got)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, sample, data)
}

func TestDetectByExtension(t *testing.T) {
	tests := map[string]Algorithm{
		"a.log.gz":  Gzip,
		"a.LOG.GZ":  Gzip,
		"a.zst":     Zstd,
		"a.lz4":     LZ4,
		"a.snappy":  Snappy,
		"a.s2":      S2,
		"a.deflate": Deflate,
		"a.log":     None,
	}
	for path, want := range tests {
		assert.Equal(t, want, Detect(path, nil), path)
	}
	// The extension wins over the content.
	assert.Equal(t, Zstd, Detect("x.zst", []byte{0x1f, 0x8b}))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	// A zstd file without an extension is found by its magic bytes.
	path := filepath.Join(dir, "capture")
	require.NoError(t, os.WriteFile(path, compress(t, Zstd, Default, sample), 0o600))

	rc, alg, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, sample, got)

	plain := filepath.Join(dir, "plain.log")
	require.NoError(t, os.WriteFile(plain, sample, 0o600))
	rc, alg, err = Open(plain)
	require.NoError(t, err)
	assert.Equal(t, None, alg)
	require.NoError(t, rc.Close())
}

func TestOpenErrors(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))

	bad := filepath.Join(t.TempDir(), "bad.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip at all"), 0o600))
	_, _, err = Open(bad)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), "brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	_, err = NewWriter(io.Discard, "brotli", Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestParse(t *testing.T) {
	alg, err := ParseAlgorithm("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, Zstd, alg)
	alg, err = ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)
	_, err = ParseAlgorithm("rar")
	assert.Error(t, err)

	level, err := ParseLevel("best")
	require.NoError(t, err)
	assert.Equal(t, Best, level)
	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, Default, level)
	_, err = ParseLevel("max")
	assert.Error(t, err)
}
