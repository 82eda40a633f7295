package forward

import "context"

// Client creates an online-services session with one upstream supplier.
// Implementations build the supplier's wire payload and headers, perform (or
// mock) the forward call, and transform the supplier's native response into
// the canonical Response. CreateSession runs forward then transform, in that
// order; transform is never attempted after a failed forward.
type Client interface {
	// Supplier returns the fixed literal identifying the supplier, e.g. "EMIS".
	Supplier() string
	// CreateSession forwards the request and returns the normalized response.
	CreateSession(ctx context.Context, req Request) (*Response, error)
}
