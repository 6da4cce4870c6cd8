// Package json wraps goccy/go-json with encode buffers drawn from a
// scratch pool.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/rxpool/pkg/pool"
)

// maxPooledBuffer bounds the capacity a buffer may keep between uses.
const maxPooledBuffer = 1 << 20

var buffers = pool.New(func() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, 4096))
}, pool.WithName("json"))

// BufferStats reports the encode buffer pool's counters.
func BufferStats() pool.Stats {
	return buffers.Stats()
}

// Marshal is a drop-in replacement for encoding/json.Marshal.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// MarshalIndent is a drop-in replacement for encoding/json.MarshalIndent.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// Unmarshal is a drop-in replacement for encoding/json.Unmarshal.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// NewDecoder returns a go-json decoder reading from r.
func NewDecoder(r io.Reader) *gojson.Decoder {
	return gojson.NewDecoder(r)
}

// LineEncoder writes one JSON document per line. Each document is
// rendered into a pooled buffer first, so a failed encode writes nothing.
type LineEncoder struct {
	w      io.Writer
	indent string
}

// NewLineEncoder returns an encoder writing to w.
func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

// SetIndent makes the encoder pretty-print with the given indent.
func (e *LineEncoder) SetIndent(indent string) {
	e.indent = indent
}

// Encode writes v followed by a newline.
func (e *LineEncoder) Encode(v interface{}) error {
	g := buffers.Get()
	defer g.Put()

	buf := *g.Value()
	buf.Reset()
	defer func() {
		if buf.Cap() > maxPooledBuffer {
			*g.Value() = bytes.NewBuffer(make([]byte, 0, 4096))
		}
	}()

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if e.indent != "" {
		enc.SetIndent("", e.indent)
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := e.w.Write(buf.Bytes())
	return err
}
