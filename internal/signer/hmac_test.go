package signer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenMessage = "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=1&recvWindow=5000&timestamp=1700000000000"

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestSignature_Golden(t *testing.T) {
	s := New("test-secret")

	assert.Equal(t,
		"7d231ee6ab6e59b85e141e097e5d08f7f24587991ffeb63369dd487bfaaf74de",
		s.Signature(goldenMessage))
}

func TestSign_GoldenThroughWindow(t *testing.T) {
	s := New("test-secret", WithClock(fixedClock(1700000000000)))

	signed := s.Sign("symbol=BTCUSDT&side=BUY&type=MARKET&quantity=1", 5000)

	assert.Equal(t, goldenMessage, signed.Query)
	assert.Equal(t, int64(5000), signed.RecvWindow)
	assert.Equal(t, int64(1700000000000), signed.Timestamp)
	assert.Equal(t, "7d231ee6ab6e59b85e141e097e5d08f7f24587991ffeb63369dd487bfaaf74de", signed.Signature)
	assert.Equal(t, goldenMessage+"&signature="+signed.Signature, signed.Encode())
}

func TestSign_EmptyCanonical(t *testing.T) {
	s := New("test-secret", WithClock(fixedClock(1700000000000)))

	signed := s.Sign("", 5000)

	assert.Equal(t, "recvWindow=5000&timestamp=1700000000000", signed.Query)
	assert.Equal(t, "e80444d3300edcb80b05d266439eb51c0f9551b00a09836c26b05dea9af0eba3", signed.Signature)
}

func TestSignature_Deterministic(t *testing.T) {
	messages := []string{
		"",
		"a=1",
		goldenMessage,
		"symbol=BTCUSD_PERP&limit=10&recvWindow=5000&timestamp=1700000000000",
		"note=%E2%9C%93&x=y",
	}
	secrets := []string{"", "k", "test-secret", "a-much-longer-secret-than-the-block-size-of-sha256-which-is-64-bytes-long"}

	for _, secret := range secrets {
		for _, msg := range messages {
			t.Run(fmt.Sprintf("%q/%q", secret, msg), func(t *testing.T) {
				a := New(secret).Signature(msg)
				b := New(secret).Signature(msg)
				assert.Equal(t, a, b)
				assert.Len(t, a, 64)
				assert.Regexp(t, "^[0-9a-f]{64}$", a)
			})
		}
	}
}

func TestSignature_Avalanche(t *testing.T) {
	base := New("test-secret").Signature(goldenMessage)

	t.Run("message_byte", func(t *testing.T) {
		changed := []byte(goldenMessage)
		changed[len(changed)-1] = '1'
		assert.NotEqual(t, base, New("test-secret").Signature(string(changed)))
	})

	t.Run("secret_byte", func(t *testing.T) {
		other := New("test-secreu").Signature(goldenMessage)
		assert.NotEqual(t, base, other)
		assert.Equal(t, "cddd8cec3d17c459c04823bb4a2322884fba3939f39ae1c383eac650e3f36f3b", other)
	})
}

func TestSign_UsesClockPerCall(t *testing.T) {
	ms := int64(1700000000000)
	s := New("test-secret", WithClock(func() time.Time {
		ms++
		return time.UnixMilli(ms)
	}))

	first := s.Sign("a=1", 5000)
	second := s.Sign("a=1", 5000)

	assert.NotEqual(t, first.Timestamp, second.Timestamp)
	assert.NotEqual(t, first.Signature, second.Signature)
}

func TestSigner_Concurrent(t *testing.T) {
	s := New("test-secret")
	want := s.Signature(goldenMessage)

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Signature(goldenMessage)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestAppendWindow(t *testing.T) {
	assert.Equal(t, "a=1&recvWindow=10&timestamp=20", AppendWindow("a=1", 10, 20))
	assert.Equal(t, "recvWindow=10&timestamp=20", AppendWindow("", 10, 20))
}
