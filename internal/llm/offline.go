package llm

import "context"

// OfflineClient is used when no completion backend is configured. Every
// call fails with ErrUnavailable so callers take their fallback paths.
type OfflineClient struct{}

func (OfflineClient) Generate(ctx context.Context, _ GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrUnavailable
}

func (OfflineClient) Available(context.Context) bool { return false }
