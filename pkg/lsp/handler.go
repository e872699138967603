package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/config"
	"github.com/lavigneer/sillycat/pkg/controller"
	"github.com/lavigneer/sillycat/pkg/host"
	"github.com/lavigneer/sillycat/pkg/panel"
	"github.com/lavigneer/sillycat/pkg/util"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	MethodShutdown                        = "shutdown"
	MethodExit                            = "exit"
	MethodWorkspaceDidChangeConfiguration = "workspace/didChangeConfiguration"
	MethodWorkspaceExecuteCommand         = "workspace/executeCommand"
	MethodDidChangeActiveEditor           = "sillycat/didChangeActiveEditor"
	MethodPanel                           = "sillycat/panel"
	MethodDecorations                     = "sillycat/decorations"

	CodeServerNotInitialized int64 = -32002
)

var (
	ErrNotInitialized     = errors.New("server not initialized")
	ErrAlreadyInitialized = errors.New("server already initialized")
)

type Options struct {
	// AssetsDir overrides the assets directory from the config file.
	AssetsDir string
}

type Handler struct {
	mu         sync.Mutex
	conn       *jsonrpc2.Conn
	opts       Options
	config     *config.Config
	workspace  *host.Workspace
	controller *controller.Controller

	initialized  chan struct{}
	initOnce     sync.Once
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		opts:        opts,
		workspace:   host.NewWorkspace(),
		initialized: make(chan struct{}),
		shutdown:    make(chan struct{}),
	}
}

// RPC adapts the handler to jsonrpc2.
//
//nolint:ireturn
func (h *Handler) RPC() jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(h.Handle)
}

// Handle implements jsonrpc2.Handler.
//
//nolint:nilnil
func (h *Handler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	slog.Debug("Handling request", "method", req.Method)
	switch req.Method {
	case protocol.MethodInitialize:
		return h.handleInitialize(ctx, conn, req)
	case protocol.MethodInitialized:
		return nil, h.handleInitialized(ctx)
	case MethodShutdown:
		h.stop()
		return nil, nil
	case MethodExit:
		h.stop()
		return nil, conn.Close()
	}

	ctrl := h.ctrl()
	if ctrl == nil {
		return nil, &jsonrpc2.Error{
			Code:    CodeServerNotInitialized,
			Message: ErrNotInitialized.Error(),
		}
	}
	switch req.Method {
	case protocol.MethodTextDocumentDidOpen:
		return nil, h.handleTextDocumentDidOpen(ctx, req)
	case protocol.MethodTextDocumentDidClose:
		return nil, h.handleTextDocumentDidClose(ctx, req)
	case protocol.MethodTextDocumentPublishDiagnostics:
		return nil, h.handlePublishDiagnostics(ctx, req)
	case MethodDidChangeActiveEditor:
		return nil, h.handleDidChangeActiveEditor(ctx, req)
	case MethodWorkspaceDidChangeConfiguration:
		return nil, h.handleDidChangeConfiguration(ctx, ctrl, req)
	case MethodWorkspaceExecuteCommand:
		return h.handleExecuteCommand(ctx, ctrl, req)
	}
	return nil, &jsonrpc2.Error{
		Code:    jsonrpc2.CodeMethodNotFound,
		Message: fmt.Sprintf("method not supported: %s", req.Method),
	}
}

func (h *Handler) ctrl() *controller.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.controller
}

type initializeParams struct {
	RootURI               protocol.DocumentURI       `json:"rootUri"`
	WorkspaceFolders      []protocol.WorkspaceFolder `json:"workspaceFolders"`
	InitializationOptions json.RawMessage            `json:"initializationOptions"`
}

func (h *Handler) handleInitialize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	if h.ctrl() != nil {
		return nil, alreadyInitialized()
	}
	var params initializeParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}

	cfg, err := config.NewWithDefaults(workspaceRoot(params))
	if err != nil {
		return nil, err
	}
	if _, err := cfg.ApplySettings(params.InitializationOptions); err != nil {
		slog.Warn("Ignoring initialization options", "error", err)
	}
	assetsDir := h.opts.AssetsDir
	if assetsDir == "" {
		assetsDir = cfg.ResolveAssetsDir()
	}
	renderer, err := panel.NewRenderer(panel.DirAssets{Dir: assetsDir})
	if err != nil {
		return nil, err
	}

	ctrl := controller.New(h.workspace, &notifyView{conn: conn}, renderer, controller.Options{
		UseWarnings:     cfg.Error.UseWarnings,
		RefreshInterval: cfg.RefreshInterval,
	})

	h.mu.Lock()
	if h.controller != nil {
		h.mu.Unlock()
		return nil, alreadyInitialized()
	}
	h.conn = conn
	h.config = cfg
	h.controller = ctrl
	h.mu.Unlock()
	ctrl.Subscribe(context.WithoutCancel(ctx))

	slog.Debug("Initialized", "workspaceFolders", params.WorkspaceFolders, "assetsDir", assetsDir, "useWarnings", cfg.Error.UseWarnings)

	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				Change:    protocol.TextDocumentSyncKindNone,
				OpenClose: true,
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandEnable, CommandDisable},
			},
		},
	}, nil
}

func alreadyInitialized() error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: ErrAlreadyInitialized.Error()}
}

func workspaceRoot(params initializeParams) string {
	candidates := make([]protocol.DocumentURI, 0, len(params.WorkspaceFolders)+1)
	for _, f := range params.WorkspaceFolders {
		candidates = append(candidates, protocol.DocumentURI(f.URI))
	}
	candidates = append(candidates, params.RootURI)
	for _, c := range candidates {
		dir := util.Filename(c)
		if dir == "" {
			continue
		}
		root, err := config.FindWorkspaceRoot(dir)
		if err != nil {
			slog.Debug("No workspace root found", "dir", dir, "error", err)
			return dir
		}
		return root
	}
	return ""
}

func (h *Handler) handleInitialized(ctx context.Context) error {
	if h.ctrl() == nil {
		return ErrNotInitialized
	}
	h.initOnce.Do(func() { close(h.initialized) })
	return nil
}

// RunPanel keeps the panel live once the client has initialized. It returns
// when ctx is cancelled or the client shuts the server down.
func (h *Handler) RunPanel(ctx context.Context) error {
	select {
	case <-h.initialized:
	case <-h.shutdown:
		return nil
	case <-ctx.Done():
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-h.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()
	return h.ctrl().Run(ctx)
}

func (h *Handler) stop() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
		if ctrl := h.ctrl(); ctrl != nil {
			ctrl.Close()
		}
		slog.Debug("Shutting down")
	})
}

func unmarshalParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return nil
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	return nil
}
