package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/rdrscript/internal/logging"
	"github.com/aretw0/rdrscript/pkg/domain"
	"github.com/aretw0/rdrscript/pkg/ports"
	"github.com/aretw0/rdrscript/pkg/variant"
	"github.com/mitchellh/mapstructure"
)

// Parser is responsible for converting a sample document into a Script.
type Parser struct {
	logger *slog.Logger
}

// Option configures the Parser.
type Option func(*Parser)

// WithLogger reports tolerated problems (bad nrWindows, ignored sections).
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse compiles a sample document.
// Sections that are present but malformed are ignored with a warning, except
// initialOps which is required.
func (p *Parser) Parse(doc *ports.SampleDocument) (*domain.Script, error) {
	if doc == nil || doc.Document.Kind() != variant.KindObject {
		return nil, fmt.Errorf("%w: sample must be an object", domain.ErrInvalidScript)
	}
	root := doc.Document
	log := p.logger.With("sample", doc.Name)

	script := &domain.Script{
		Name:      doc.Name,
		BaseDir:   doc.BaseDir,
		NrWindows: p.nrWindows(log, root),
	}

	ops, ok := root.Get("initialOps")
	if !ok || ops.Kind() != variant.KindArray {
		return nil, fmt.Errorf("%w: no valid `initialOps` defined", domain.ErrInvalidScript)
	}
	if ops.Len() == 0 {
		return nil, domain.ErrEmptyScript
	}
	for i, raw := range ops.Elems() {
		op, err := decodeOperation(raw)
		if err != nil {
			return nil, fmt.Errorf("initialOps[%d]: %w", i, err)
		}
		script.InitialOps = append(script.InitialOps, op)
	}

	if named, ok := root.Get("namedOps"); ok {
		if named.Kind() != variant.KindObject {
			log.Warn("`namedOps` defined but not an object")
		} else {
			script.NamedOps = make(map[string]domain.Operation, named.Len())
			for _, name := range named.Keys() {
				raw, _ := named.Get(name)
				op, err := decodeOperation(raw)
				if err != nil {
					return nil, fmt.Errorf("namedOps[%s]: %w", name, err)
				}
				script.NamedOps[name] = op
			}
		}
	}

	if events, ok := root.Get("events"); ok {
		if events.Kind() != variant.KindArray {
			log.Warn("`events` defined but not an array")
		} else {
			for i, raw := range events.Elems() {
				sub, err := decodeSubscription(raw)
				if err != nil {
					return nil, fmt.Errorf("events[%d]: %w", i, err)
				}
				script.Events = append(script.Events, sub)
			}
		}
	}
	if len(script.Events) == 0 {
		log.Debug("no event subscriptions defined")
	}

	return script, nil
}

func (p *Parser) nrWindows(log *slog.Logger, root variant.Value) int {
	raw, ok := root.Get("nrWindows")
	if !ok {
		log.Warn("`nrWindows` not defined, using 1")
		return 1
	}
	n, ok := raw.AsInt64()
	if !ok || n <= 0 || n > domain.MaxWindows {
		log.Warn("wrong number of windows, using 1", "nr_windows", raw.String())
		return 1
	}
	return int(n)
}

func decode(raw variant.Value, out any) error {
	if raw.Kind() != variant.KindObject {
		return fmt.Errorf("%w: expected an object, got %s", domain.ErrInvalidScript, raw.Kind())
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw.ToAny()); err != nil {
		return errors.Join(domain.ErrInvalidScript, err)
	}
	return nil
}

func decodeOperation(raw variant.Value) (domain.Operation, error) {
	var op domain.Operation
	if err := decode(raw, &op); err != nil {
		return op, err
	}
	if op.Name == "" {
		return op, fmt.Errorf("%w: no valid `operation` defined", domain.ErrInvalidScript)
	}
	if op.Target != "" {
		if _, err := domain.ParseTarget(op.Target); err != nil {
			return op, err
		}
	}
	if op.Element != "" {
		if _, err := domain.ParseElement(op.Element); err != nil {
			return op, err
		}
	}
	return op, nil
}

func decodeSubscription(raw variant.Value) (domain.Subscription, error) {
	var sub domain.Subscription
	if err := decode(raw, &sub); err != nil {
		return sub, err
	}
	if sub.Action == "" {
		sub.Action, _ = raw.GetString("action")
	}
	if sub.Event == "" || sub.Source == "" || sub.Action == "" {
		return sub, fmt.Errorf("%w: subscription needs `event`, `source` and `namedOp`", domain.ErrInvalidScript)
	}
	if _, err := domain.ParseTarget(sub.Source); err != nil {
		return sub, err
	}
	if sub.Element != "" {
		if _, err := domain.ParseElement(sub.Element); err != nil {
			return sub, err
		}
	}
	return sub, nil
}
