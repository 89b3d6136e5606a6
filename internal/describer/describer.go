// Package describer generates short Polish descriptions of locations with a
// language model.
package describer

import (
	"context"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// Request is one location to describe, with the episode it appeared in.
type Request struct {
	Location model.Location
	Video    model.Video
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Describer produces a description for a location.
type Describer interface {
	Describe(ctx context.Context, req Request) (string, Usage, error)
	Provider() string
	Model() string
}

// New creates a Describer for provider ("anthropic" or "gemini"), reading
// the API key from the environment.
func New(ctx context.Context, provider, model string, maxTokens int) (Describer, error) {
	switch provider {
	case "anthropic", "":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		return NewAnthropic(key, model, maxTokens), nil
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		return NewGemini(ctx, key, model, maxTokens)
	}
	return nil, fmt.Errorf("unknown describe provider %q", provider)
}

// Outcome is the result of describing one request.
type Outcome struct {
	Request     Request
	Description string
	Usage       Usage
	Err         error
}

// DescribeAll describes reqs with at most concurrency requests in flight,
// calling done for each as it finishes. done is never called concurrently.
// It stops launching new requests once ctx is done.
func DescribeAll(ctx context.Context, d Describer, reqs []Request, concurrency int64, done func(Outcome)) error {
	if concurrency < 1 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(concurrency)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, req := range reqs {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			text, usage, err := d.Describe(ctx, req)
			mu.Lock()
			done(Outcome{Request: req, Description: text, Usage: usage, Err: err})
			mu.Unlock()
		}()
	}
	wg.Wait()
	return ctx.Err()
}
