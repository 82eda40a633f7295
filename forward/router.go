package forward

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NHSDigital/im1-pfs-auth/lib/debug"
	"github.com/NHSDigital/im1-pfs-auth/lib/logging"
	libotel "github.com/NHSDigital/im1-pfs-auth/lib/otel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/NHSDigital/im1-pfs-auth/forward")

// Router dispatches a validated Request to the supplier client registered for
// its destination. The dispatch table is fixed at construction; there is no
// runtime registration.
type Router struct {
	clients map[string]Client
}

// NewRouter builds a Router over the given destination->client table. The map
// is copied, so later mutation by the caller has no effect.
func NewRouter(clients map[string]Client) *Router {
	table := make(map[string]Client, len(clients))
	for destination, client := range clients {
		table[destination] = client
	}
	return &Router{clients: table}
}

// RouteAndForward selects the supplier client by exact ForwardTo match and runs
// the forward-then-transform pipeline. Taxonomy errors propagate unchanged; any
// other failure (including an unmapped destination) is wrapped as Downstream,
// keeping the cause for diagnostics only.
func (r *Router) RouteAndForward(ctx context.Context, req Request) (*Response, error) {
	ctx, span := tracer.Start(
		ctx,
		debug.GetFullCallerName(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("forward.destination", req.ForwardTo)),
	)
	defer span.End()

	client, ok := r.clients[req.ForwardTo]
	if !ok {
		err := fmt.Errorf("no supplier client registered for destination %s", req.ForwardTo)
		slog.ErrorContext(ctx, "Unmapped forwarding destination",
			slog.String(logging.FieldForwardTo, req.ForwardTo))
		return nil, libotel.Error(span, Downstream("Error occurred with downstream service", err))
	}
	span.SetAttributes(attribute.String("forward.supplier", client.Supplier()))

	response, err := client.CreateSession(ctx, req)
	if err != nil {
		if _, isDomain := AsError(err); isDomain {
			return nil, libotel.Error(span, err)
		}
		slog.ErrorContext(ctx, "Supplier call failed",
			slog.String(logging.FieldSupplier, client.Supplier()),
			slog.String(logging.FieldError, err.Error()))
		return nil, libotel.Error(span, Downstream("Error occurred with downstream service", err))
	}
	return response, nil
}
