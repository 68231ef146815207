package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	slow := Func(func(ctx context.Context, req Request) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "ok", nil
	})

	p := Limit(slow, 2)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Complete(context.Background(), Request{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestLimitCancelledWaiterIsUnavailable(t *testing.T) {
	block := make(chan struct{})
	p := Limit(Func(func(ctx context.Context, req Request) (string, error) {
		<-block
		return "ok", nil
	}), 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Complete(context.Background(), Request{})
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Complete(ctx, Request{})
	assert.ErrorIs(t, err, ErrUnavailable)

	close(block)
	<-done
}

func TestTimeoutWrapsDeadline(t *testing.T) {
	p := Timeout(Func(func(ctx context.Context, req Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond)

	_, err := p.Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTimeoutPassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	p := Timeout(Func(func(ctx context.Context, req Request) (string, error) {
		return "", boom
	}), time.Second)

	_, err := p.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestMessageWithImageDoesNotAlias(t *testing.T) {
	base := Text(RoleUser, "describe")
	a := base.WithImage("https://a")
	b := base.WithImage("https://b")
	assert.Len(t, base.Parts, 1)
	assert.Equal(t, "https://a", a.Parts[1].ImageURL)
	assert.Equal(t, "https://b", b.Parts[1].ImageURL)
}

func TestParseClient(t *testing.T) {
	c, err := ParseClient(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, OpenAI, c)
	_, err = ParseClient("claude")
	assert.Error(t, err)
}
