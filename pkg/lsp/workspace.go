package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ/lsp/protocol"
	"github.com/lavigneer/sillycat/pkg/controller"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	CommandEnable  = "SillyCat.enable"
	CommandDisable = "SillyCat.disable"
)

var ErrUnknownCommand = errors.New("unknown command")

type didChangeConfigurationParams struct {
	Settings json.RawMessage `json:"settings"`
}

func (h *Handler) handleDidChangeConfiguration(ctx context.Context, ctrl *controller.Controller, req *jsonrpc2.Request) error {
	var params didChangeConfigurationParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}

	h.mu.Lock()
	changed, err := h.config.ApplySettings(params.Settings)
	useWarnings := h.config.Error.UseWarnings
	h.mu.Unlock()
	if err != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	if !changed {
		return nil
	}
	slog.Debug("Configuration changed", "useWarnings", useWarnings)
	ctrl.SetUseWarnings(useWarnings)
	return ctrl.RefreshPanel(ctx)
}

//nolint:nilnil
func (h *Handler) handleExecuteCommand(ctx context.Context, ctrl *controller.Controller, req *jsonrpc2.Request) (any, error) {
	var params protocol.ExecuteCommandParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	var err error
	switch params.Command {
	case CommandEnable:
		err = ctrl.Enable(ctx)
	case CommandDisable:
		err = ctrl.Disable(ctx)
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeInvalidParams,
			Message: fmt.Sprintf("%s: %q", ErrUnknownCommand, params.Command),
		}
	}
	if err != nil {
		slog.Error("Command failed", "command", params.Command, "error", err)
	}
	return nil, nil
}
