package chunkio

import (
	"bytes"
	"io"
	"testing"

	"github.com/openmdtools/trajcomp/internal/codec"
	"github.com/openmdtools/trajcomp/internal/predict"
)

func TestPackagerReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := codec.NewVarintCodec()
	const chunkSize = 4

	p := NewPackager(&buf, chunkSize, c)
	defer p.Close()

	var want []predict.SVI
	for i := 0; i < 10; i++ {
		svi := predict.SVI{DT: uint32(i), V: uint32(2 * i)}
		want = append(want, svi)
		if err := p.Append(svi); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewReader(&buf, chunkSize, c)
	defer r.Close()

	var got []predict.SVI
	for {
		dt, v, ended, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if ended {
			break
		}
		got = append(got, predict.SVI{DT: dt, V: v})
	}

	if len(got) != len(want) {
		t.Fatalf("got %d pairs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pair %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSentinelPresence(t *testing.T) {
	var buf bytes.Buffer
	c := codec.NewVarintCodec()
	p := NewPackager(&buf, 8, c)
	defer p.Close()

	for i := 0; i < 3; i++ {
		_ = p.Append(predict.SVI{DT: uint32(i), V: uint32(i)})
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data := buf.Bytes()
	// The stream must end with exactly one zero-length chunk header.
	last := data[len(data)-HeaderSize:]
	hdr, err := ReadChunkHeader(bytes.NewReader(last))
	if err != nil {
		t.Fatalf("ReadChunkHeader: %v", err)
	}
	if !hdr.IsEnd() {
		t.Fatalf("final header = %+v, want zero-length sentinel", hdr)
	}
}

func TestReaderEOFOnEmptySource(t *testing.T) {
	r := NewReader(bytes.NewReader(nil), 8, codec.NewVarintCodec())
	defer r.Close()
	_, _, _, err := r.Next()
	if err == nil {
		t.Fatal("expected an error reading from an empty source")
	}
}

func TestKeyframeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := WriteKeyframe(&buf, 30, payload); err != nil {
		t.Fatalf("WriteKeyframe: %v", err)
	}
	bits, got, err := ReadKeyframe(&buf)
	if err != nil {
		t.Fatalf("ReadKeyframe: %v", err)
	}
	if bits != 30 {
		t.Errorf("bits = %d, want 30", bits)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload = %x, want %x", got, payload)
	}
	if _, _, err := ReadKeyframe(&buf); err != io.EOF {
		t.Errorf("second ReadKeyframe error = %v, want io.EOF", err)
	}
}
