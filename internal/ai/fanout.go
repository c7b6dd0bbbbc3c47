package ai

import (
	"context"
	"fmt"

	"github.com/CodexForgeBR/crewchief/internal/parser"
	"go.uber.org/zap"
)

// Request is one structured question for the endpoint.
type Request struct {
	System string
	User   string
	Schema parser.Schema
}

// Extract sends req and decodes the schema-valid JSON in the reply into V.
func Extract[V any](ctx context.Context, client Chatter, extractor *parser.Extractor, req Request) (V, error) {
	var zero V
	raw, err := client.PostChat(ctx, req.System, req.User, true)
	if err != nil {
		return zero, err
	}
	return parser.Decode[V](extractor, raw, req.Schema)
}

// ExtractMany runs one Extract per unit, in order, and never fails as a
// whole: a unit whose request, transport call or extraction fails
// contributes placeholder(unit, err) instead. The result has one value per
// unit in input order.
func ExtractMany[U, V any](
	ctx context.Context,
	client Chatter,
	extractor *parser.Extractor,
	units []U,
	build func(U) (Request, error),
	placeholder func(U, error) V,
) []V {
	logger := extractor.Logger()
	out := make([]V, 0, len(units))
	for i, u := range units {
		v, err := extractUnit[U, V](ctx, client, extractor, u, build)
		if err != nil {
			logger.Debug("fan-out unit failed, using placeholder", zap.Int("unit", i), zap.Error(err))
			out = append(out, placeholder(u, err))
			continue
		}
		out = append(out, v)
	}
	return out
}

func extractUnit[U, V any](ctx context.Context, client Chatter, extractor *parser.Extractor, u U, build func(U) (Request, error)) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, &UnavailableError{Reason: "request cancelled", Err: err}
	}
	req, err := build(u)
	if err != nil {
		return zero, fmt.Errorf("building request: %w", err)
	}
	return Extract[V](ctx, client, extractor, req)
}
