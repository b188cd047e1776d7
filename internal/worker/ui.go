package worker

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"calculus/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"riverqueue.com/riverui"
)

// NewUI returns the River dashboard for client, serving its pages and API
// under prefix. The handler's background services run until ctx is done.
func NewUI(ctx context.Context, client *river.Client[pgx.Tx], prefix string) (http.Handler, error) {
	handler, err := riverui.NewHandler(&riverui.HandlerOpts{
		Endpoints: riverui.NewEndpoints(client, nil),
		Logger:    logger.Slog(ctx),
		Prefix:    strings.TrimSuffix(prefix, "/"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river ui handler: %w", err)
	}

	if err := handler.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river ui handler: %w", err)
	}

	return handler, nil
}
