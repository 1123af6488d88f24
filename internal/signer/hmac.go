// Package signer computes HMAC-SHA256 request signatures.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Signer signs canonical query strings with a secret key. It is safe for concurrent use.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithClock replaces the clock used to stamp requests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

// New creates a Signer keyed by secret.
func New(secret string, opts ...Option) *Signer {
	s := &Signer{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signed is a canonical query string with its receive window, timestamp and signature.
type Signed struct {
	// Query is everything the signature covers, ending with recvWindow and timestamp.
	Query      string
	RecvWindow int64
	Timestamp  int64
	Signature  string
}

// Encode returns the wire form with the signature as the last parameter.
func (s Signed) Encode() string {
	return s.Query + "&signature=" + s.Signature
}

// Sign stamps canonical with recvWindow and the current time in milliseconds, then signs it.
func (s *Signer) Sign(canonical string, recvWindow int64) Signed {
	ts := s.now().UnixMilli()
	query := AppendWindow(canonical, recvWindow, ts)
	return Signed{
		Query:      query,
		RecvWindow: recvWindow,
		Timestamp:  ts,
		Signature:  s.Signature(query),
	}
}

// Signature returns the lowercase hex HMAC-SHA256 of message.
func (s *Signer) Signature(message string) string {
	return Sign(message, s.secret)
}

// Sign returns the lowercase hex HMAC-SHA256 of message keyed by secret.
func Sign(message string, secret []byte) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// AppendWindow appends recvWindow and timestamp to canonical.
func AppendWindow(canonical string, recvWindow, timestamp int64) string {
	var b strings.Builder
	b.Grow(len(canonical) + 48)
	if canonical != "" {
		b.WriteString(canonical)
		b.WriteByte('&')
	}
	b.WriteString("recvWindow=")
	b.WriteString(strconv.FormatInt(recvWindow, 10))
	b.WriteString("&timestamp=")
	b.WriteString(strconv.FormatInt(timestamp, 10))
	return b.String()
}
