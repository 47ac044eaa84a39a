// Package messaging implements the request/response surface exposed to the
// extension UI, framed with the WebExtension native-messaging protocol.
package messaging

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Frame size limits from the native-messaging documentation: the browser
// sends the host up to 64 MiB per message and accepts at most 1 MiB back.
const (
	MaxInboundFrame  = 64 << 20
	MaxOutboundFrame = 1 << 20
)

// Codec reads and writes native-messaging frames: a uint32 little-endian
// byte length followed by a JSON body. Writes are serialized so concurrent
// request handlers can respond on the same stream.
type Codec struct {
	r *bufio.Reader

	wmu sync.Mutex
	w   io.Writer
}

// NewCodec wraps a stream pair, stdin/stdout in production.
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{r: bufio.NewReader(r), w: w}
}

// Read returns the next frame body. io.EOF signals an orderly shutdown of
// the browser side; any malformed frame is a hard error that ends the
// session.
func (c *Codec) Read() (json.RawMessage, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	size := binary.LittleEndian.Uint32(header[:])
	if size == 0 {
		return nil, fmt.Errorf("zero-length frame")
	}
	if size > MaxInboundFrame {
		return nil, fmt.Errorf("frame of %d bytes exceeds the %d byte limit", size, MaxInboundFrame)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}

// Write marshals v and sends it as one frame.
func (c *Codec) Write(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	if len(body) > MaxOutboundFrame {
		return fmt.Errorf("frame of %d bytes exceeds the %d byte limit", len(body), MaxOutboundFrame)
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(body)))

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := c.w.Write(body); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}
