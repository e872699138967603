package lsp

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"golang.org/x/sync/errgroup"
)

type LSP struct {
	handler jsonrpc2.Handler
	logger  *log.Logger
}

func New(handler jsonrpc2.Handler, logger *log.Logger) *LSP {
	return &LSP{handler, logger}
}

// Run serves handler on rwc and keeps its panel live. The panel stops when
// the client shuts down, the connection closes or ctx is cancelled; Run
// returns once the connection is gone.
func Run(ctx context.Context, handler *Handler, rwc io.ReadWriteCloser, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		select {
		case <-New(handler.RPC(), logger).Serve(ctx, rwc):
			slog.Info("Connection closed")
		case <-ctx.Done():
			return rwc.Close()
		}
		return nil
	})
	g.Go(func() error {
		return handler.RunPanel(ctx)
	})
	return g.Wait()
}

func Stdio() io.ReadWriteCloser {
	return stdrwc{}
}

// Serve serves the handler on rwc. The returned channel is closed when the
// connection goes away.
func (l LSP) Serve(ctx context.Context, rwc io.ReadWriteCloser) <-chan struct{} {
	opts := []jsonrpc2.ConnOpt{}
	if l.logger != nil {
		opts = append(opts, jsonrpc2.LogMessages(l.logger))
	}
	return jsonrpc2.NewConn(
		ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		l.handler,
		opts...,
	).DisconnectNotify()
}

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}

	return os.Stdout.Close()
}
