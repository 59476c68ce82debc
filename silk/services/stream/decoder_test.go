package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"silk/silk/utils/logging"
)

func init() {
	logging.InitTestLogger()
}

func frame(content string) string {
	return "data: {\"choices\":[{\"delta\":{\"content\":\"" + content + "\"}}]}\n"
}

func feed(t *testing.T, chunks []string) *Decoder {
	t.Helper()
	d := NewDecoder(nil)
	for _, c := range chunks {
		d.Write([]byte(c))
	}
	return d
}

func TestDecoderBasicAccumulation(t *testing.T) {
	d := feed(t, []string{frame("Hel"), frame("lo"), "data: [DONE]\n"})
	if got := d.Text(); got != "Hello" {
		t.Errorf("accumulated %q, want %q", got, "Hello")
	}
	if !d.Done() {
		t.Error("decoder did not reach done state")
	}
}

func TestDecoderSplitAcrossChunks(t *testing.T) {
	whole := frame("Hel") + frame("lo") + "\n" + "data: [DONE]\n"

	// feed the identical bytes split at every possible boundary, including
	// mid-line, and require the same accumulated text each time
	for cut := 0; cut <= len(whole); cut++ {
		d := feed(t, []string{whole[:cut], whole[cut:]})
		if got := d.Text(); got != "Hello" {
			t.Errorf("split at %d: accumulated %q, want %q", cut, got, "Hello")
		}
	}
}

func TestDecoderMalformedFrameSkipped(t *testing.T) {
	d := feed(t, []string{
		frame("Hel"),
		"data: {not valid json\n",
		frame("lo"),
		"data: [DONE]\n",
	})
	if got := d.Text(); got != "Hello" {
		t.Errorf("malformed frame interrupted accumulation: %q", got)
	}
}

func TestDecoderDoneSentinelHalts(t *testing.T) {
	d := feed(t, []string{
		frame("Hi"),
		"data: [DONE]\n" + frame("ignored"),
	})
	if got := d.Text(); got != "Hi" {
		t.Errorf("bytes after [DONE] were merged: %q", got)
	}
	d.Write([]byte(frame("still ignored")))
	if got := d.Text(); got != "Hi" {
		t.Errorf("writes after done were merged: %q", got)
	}
}

func TestDecoderCommentsAndBlankLines(t *testing.T) {
	d := feed(t, []string{
		": keep-alive\n",
		"\n",
		frame("ok"),
		"\r\n",
		"event: message\n",
		"data: [DONE]\n",
	})
	if got := d.Text(); got != "ok" {
		t.Errorf("comments or blank lines contributed text: %q", got)
	}
}

func TestDecoderCarriageReturn(t *testing.T) {
	d := feed(t, []string{
		strings.TrimSuffix(frame("crlf"), "\n") + "\r\n",
		"data: [DONE]\r\n",
	})
	if got := d.Text(); got != "crlf" {
		t.Errorf("CRLF line endings mishandled: %q", got)
	}
	if !d.Done() {
		t.Error("sentinel with trailing CR not recognized")
	}
}

func TestDecoderEmptyDelta(t *testing.T) {
	var calls int
	d := NewDecoder(func(string) { calls++ })
	d.Write([]byte("data: {\"choices\":[{\"delta\":{}}]}\n"))
	d.Write([]byte("data: {\"choices\":[]}\n"))
	d.Write([]byte(frame("x")))
	if calls != 1 {
		t.Errorf("expected exactly one delta emission, got %d", calls)
	}
	if d.Text() != "x" {
		t.Errorf("accumulated %q, want %q", d.Text(), "x")
	}
}

func TestDecoderDeltaOrdering(t *testing.T) {
	var seen []string
	d := NewDecoder(func(fragment string) { seen = append(seen, fragment) })
	d.Write([]byte(frame("a") + frame("b") + frame("c")))
	if strings.Join(seen, "") != "abc" {
		t.Errorf("fragments out of order: %v", seen)
	}
}

func TestConsumeEndToEnd(t *testing.T) {
	chunks := []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\ndata: [DONE]\n",
	}
	text, err := Consume(context.Background(), strings.NewReader(strings.Join(chunks, "")), nil)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if text != "Hello" {
		t.Errorf("final text %q, want %q", text, "Hello")
	}
}

func TestConsumePartialTailDiscarded(t *testing.T) {
	// stream ends without a newline after the last frame
	text, err := Consume(context.Background(), strings.NewReader(frame("done")+"data: {\"choices\":[{\"delta\":{\"content\":\"lost"), nil)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if text != "done" {
		t.Errorf("partial line was flushed: %q", text)
	}
}

type failingReader struct {
	data string
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func TestConsumeTransportError(t *testing.T) {
	text, err := Consume(context.Background(), &failingReader{data: frame("par")}, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if text != "par" {
		t.Errorf("partial text before failure lost: %q", text)
	}
}

func TestConsumeContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Consume(ctx, strings.NewReader(frame("x")), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConsumeEOFWithoutSentinel(t *testing.T) {
	text, err := Consume(context.Background(), io.MultiReader(strings.NewReader(frame("abc"))), nil)
	if err != nil {
		t.Fatalf("EOF without sentinel should not error: %v", err)
	}
	if text != "abc" {
		t.Errorf("final text %q, want %q", text, "abc")
	}
}
