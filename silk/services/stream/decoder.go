// Package stream decodes text/event-stream bodies whose chunks do not
// respect line or frame boundaries, and merges the delta fragments into a
// single growing assistant message.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"silk/silk/utils/logging"
)

const dataPrefix = "data: "

type state int

const (
	stateAwaitingLine state = iota
	stateHaveLine
	stateDone
)

type deltaChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder reassembles SSE frames from arbitrarily split byte chunks. Each
// extracted fragment is appended to the accumulator and reported through
// onDelta strictly in arrival order, before the next chunk is accepted.
type Decoder struct {
	buf     []byte
	acc     strings.Builder
	st      state
	line    string
	onDelta func(fragment string)
}

// NewDecoder creates a decoder. onDelta may be nil when only the final
// accumulated text is wanted.
func NewDecoder(onDelta func(fragment string)) *Decoder {
	return &Decoder{onDelta: onDelta}
}

// Write feeds one received chunk into the decoder. Every complete line in
// the buffer is consumed before Write returns; a trailing partial line stays
// buffered for the next chunk. After the [DONE] sentinel all further input
// is discarded.
func (d *Decoder) Write(p []byte) {
	if d.st == stateDone {
		return
	}
	d.buf = append(d.buf, p...)

	for d.st != stateDone {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			d.st = stateAwaitingLine
			return
		}
		d.line = string(d.buf[:idx])
		d.buf = d.buf[idx+1:]
		d.st = stateHaveLine
		d.consumeLine()
	}
}

// consumeLine handles exactly one reassembled line and moves the state
// machine back to awaiting-line, or to done on the sentinel.
func (d *Decoder) consumeLine() {
	line := strings.TrimSuffix(d.line, "\r")
	d.line = ""
	d.st = stateAwaitingLine

	// blank lines are frame separators, ':' lines are SSE comments
	if line == "" || strings.HasPrefix(line, ":") {
		return
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return
	}

	payload := strings.TrimSpace(line[len(dataPrefix):])
	if payload == "[DONE]" {
		d.st = stateDone
		d.buf = nil
		return
	}

	var chunk deltaChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// one malformed frame must not poison the stream
		logging.ErrorLogger.Error("failed to parse SSE payload",
			zap.Error(err), zap.String("payload", payload))
		return
	}
	if len(chunk.Choices) == 0 {
		return
	}
	fragment := chunk.Choices[0].Delta.Content
	if fragment == "" {
		return
	}

	d.acc.WriteString(fragment)
	if d.onDelta != nil {
		d.onDelta(fragment)
	}
}

// Done reports whether the [DONE] sentinel was seen.
func (d *Decoder) Done() bool { return d.st == stateDone }

// Text returns the assistant message accumulated so far.
func (d *Decoder) Text() string { return d.acc.String() }

// Consume reads r chunk by chunk until the sentinel or end of data, feeding
// every chunk through the decoder. Bytes left without a terminating newline
// when the stream ends are discarded. It returns the accumulated text; a
// failed read surfaces as the returned error alongside whatever text had
// been merged by then.
func Consume(ctx context.Context, r io.Reader, onDelta func(fragment string)) (string, error) {
	d := NewDecoder(onDelta)
	buf := make([]byte, 2048)

	for !d.Done() {
		if err := ctx.Err(); err != nil {
			return d.Text(), err
		}
		n, err := r.Read(buf)
		if n > 0 {
			d.Write(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return d.Text(), err
		}
	}
	return d.Text(), nil
}
