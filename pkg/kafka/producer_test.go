package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type memWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error { return nil }

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

func TestPublishEncodesValues(t *testing.T) {
	w := &memWriter{}
	p := NewProducerWithWriter(w, "plans", "gzip")

	if err := p.Publish(context.Background(), "", []byte("k"), map[string]int{"n": 1}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.Publish(context.Background(), "other", nil, "raw"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(w.msgs))
	}
	if w.msgs[0].Topic != "plans" || string(w.msgs[0].Key) != "k" {
		t.Fatalf("first message: %+v", w.msgs[0])
	}
	var decoded map[string]int
	if err := json.Unmarshal(w.msgs[0].Value, &decoded); err != nil || decoded["n"] != 1 {
		t.Fatalf("value: %s", w.msgs[0].Value)
	}
	if w.msgs[1].Topic != "other" || string(w.msgs[1].Value) != "raw" {
		t.Fatalf("second message: %+v", w.msgs[1])
	}
}

func TestPublishErrors(t *testing.T) {
	if err := NewProducerWithWriter(&memWriter{}, "", "gzip").Publish(context.Background(), "", nil, "x"); err == nil {
		t.Fatalf("expected error without topic")
	}
	boom := errors.New("boom")
	err := NewProducerWithWriter(&memWriter{err: boom}, "t", "gzip").Publish(context.Background(), "", nil, "x")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped writer error, got %v", err)
	}
	if err := NewProducerWithWriter(&memWriter{}, "t", "gzip").Publish(context.Background(), "", nil, func() {}); err == nil {
		t.Fatalf("expected marshal error")
	}
}

func TestParseCompression(t *testing.T) {
	cases := map[string]kafka.Compression{
		"snappy": kafka.Snappy,
		"lz4":    kafka.Lz4,
		"zstd":   kafka.Zstd,
		"gzip":   kafka.Gzip,
		"":       kafka.Gzip,
	}
	for in, want := range cases {
		if got := parseCompression(in); got != want {
			t.Fatalf("%q: got %v want %v", in, got, want)
		}
	}
}
