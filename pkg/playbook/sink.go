package playbook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
)

// Sink is an output target for a rendered playbook.
type Sink interface {
	// Open acquires the target. The returned writer must be closed.
	Open(ctx context.Context) (io.WriteCloser, error)
	String() string
}

// FileSink writes the playbook to a file, creating parent directories.
type FileSink struct {
	Path string
}

func (s FileSink) Open(ctx context.Context) (io.WriteCloser, error) {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

func (s FileSink) String() string {
	return s.Path
}

// WriterSink writes to an existing stream, typically stdout. Closing the
// sink does not close the stream.
type WriterSink struct {
	W    io.Writer
	Name string
}

func (s WriterSink) Open(ctx context.Context) (io.WriteCloser, error) {
	return nopCloser{s.W}, nil
}

func (s WriterSink) String() string {
	if s.Name == "" {
		return "stdout"
	}
	return s.Name
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Setter is the subset of a Redis client used by RedisSink.
type Setter interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSink stores the playbook as a string value. The value is written on
// Close, so a failed render never leaves a partial key behind.
type RedisSink struct {
	Client Setter
	Key    string
	TTL    time.Duration
}

// NewRedisSink creates a sink backed by a Redis server at addr.
func NewRedisSink(addr, password string, db int, key string, ttl time.Duration) *RedisSink {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSink{Client: client, Key: key, TTL: ttl}
}

func (s *RedisSink) Open(ctx context.Context) (io.WriteCloser, error) {
	if s.Key == "" {
		return nil, fmt.Errorf("redis sink: empty key")
	}
	return &redisWriter{ctx: ctx, sink: s}, nil
}

func (s *RedisSink) String() string {
	return "redis key " + s.Key
}

// Close releases the underlying client when it owns one.
func (s *RedisSink) Close() error {
	if c, ok := s.Client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type redisWriter struct {
	ctx  context.Context
	sink *RedisSink
	buf  bytes.Buffer
}

func (w *redisWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *redisWriter) Close() error {
	return w.sink.Client.Set(w.ctx, w.sink.Key, w.buf.String(), w.sink.TTL).Err()
}
