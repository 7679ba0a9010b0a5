package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/renzocastillo/WSLScriptRunner/internal/log"
	"github.com/renzocastillo/WSLScriptRunner/internal/protocol"
)

// Dispatcher resolves requests against a Registry and wraps results in the response envelope.
type Dispatcher struct {
	registry  *Registry
	logger    *slog.Logger
	errorIcon string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorIcon sets the icon used for rows produced from recovered panics.
func WithErrorIcon(path string) Option {
	return func(d *Dispatcher) { d.errorIcon = path }
}

// New creates a new Dispatcher.
func New(reg *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		logger:   log.WithComponent("dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Serve handles the process arguments and writes the response to w.
// With no arguments nothing is done and nothing is written.
// Malformed requests and unknown methods are returned without writing.
func (d *Dispatcher) Serve(ctx context.Context, args []string, w io.Writer) error {
	if len(args) == 0 {
		d.logger.Debug("no request supplied; nothing to do")
		return nil
	}
	if len(args) > 1 {
		d.logger.Warn("ignoring extra arguments", "count", len(args)-1)
	}

	req, err := protocol.DecodeRequest(args[0])
	if err != nil {
		return err
	}

	resp, err := d.Handle(ctx, req)
	if err != nil {
		return err
	}

	return protocol.EncodeResponse(w, resp)
}

// Handle resolves and invokes the request's method and returns the envelope.
func (d *Dispatcher) Handle(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	op, err := d.registry.Resolve(req.Method)
	if err != nil {
		d.logger.Error("method not registered", "method", req.Method, "known", d.registry.Names())
		return nil, err
	}

	args, err := req.Args()
	if err != nil {
		return nil, err
	}
	if !op.acceptsArgs(len(args)) {
		return nil, fmt.Errorf("%w: %s takes %s, got %d", protocol.ErrMalformedRequest, op.Name, arityText(op), len(args))
	}

	methodLogger := log.WithMethod(op.Name).With(slog.String("component", "dispatch"))
	methodLogger.Debug("invoking operation", "params", req.Kind().String(), "args", len(args))

	results := d.invoke(ctx, op, NewParams(args...), methodLogger)

	methodLogger.Debug("operation completed", "results", len(results))
	return protocol.NewResponse(results), nil
}

// invoke runs the handler, converting a panic into a single error row.
func (d *Dispatcher) invoke(ctx context.Context, op Operation, params Params, logger *slog.Logger) (results []protocol.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("operation panicked", "panic", fmt.Sprint(r))
			results = []protocol.Result{{
				Title:    fmt.Sprintf("Error running %s", op.Name),
				SubTitle: fmt.Sprintf("Error: %v", r),
				IcoPath:  d.errorIcon,
			}}
		}
	}()
	return op.Handler(ctx, params)
}

func arityText(op Operation) string {
	switch {
	case op.MaxArgs == Unlimited:
		return fmt.Sprintf("at least %d argument(s)", op.MinArgs)
	case op.MinArgs == op.MaxArgs:
		return fmt.Sprintf("%d argument(s)", op.MinArgs)
	default:
		return fmt.Sprintf("%d to %d argument(s)", op.MinArgs, op.MaxArgs)
	}
}
