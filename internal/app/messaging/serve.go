package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/tabtile/tabtile/internal/logging"
)

// Serve pumps requests from the codec until EOF or context cancellation.
// The browser may pipeline requests without waiting for answers, so each
// request runs in its own goroutine; the codec serializes responses.
func Serve(ctx context.Context, codec *Codec, handler *Handler) error {
	ctx = logging.WithComponent(ctx, "messaging")
	log := logging.FromContext(ctx)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Read blocks until the next frame or pipe close; cancellation is
		// only observed at frame boundaries. The browser closes stdin when
		// the extension disconnects, which is the normal shutdown path.
		frame, err := codec.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Msg("browser closed the message stream")
				return nil
			}
			return err
		}

		var req Request
		if err := json.Unmarshal(frame, &req); err != nil {
			// An unparseable envelope is unanswerable: there is no id to
			// address a response to. Treat it as a protocol violation.
			log.Error().Err(err).Msg("malformed request envelope")
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := handler.Handle(ctx, req)
			if err := codec.Write(resp); err != nil {
				log.Error().Err(err).Str("type", req.Type).Msg("response write failed")
			}
		}()
	}
}
