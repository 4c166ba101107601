package backoff

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// ErrAttributeNotFound is returned by Proxy.Resolve when the wrapped client
// has no member of the requested name. Check with errors.Is.
var ErrAttributeNotFound = errors.New("attribute not found")

// CallFunc is a policy-wrapped client member. Arguments are passed
// positionally and matched against the member's signature; if the member's
// first parameter is a context.Context the caller's ctx is forwarded to it.
type CallFunc func(ctx context.Context, args ...any) (any, error)

// Proxy makes every callable member of a client object policy-governed
// without per-method wrapping. Non-callable members pass through unchanged.
// Safe for concurrent use.
type Proxy struct {
	client reflect.Value
	policy *Policy
}

// NewProxy wraps a client-like value - anything exposing exported methods
// or func-typed struct fields.
func NewProxy(client any, opts ...Option) (*Proxy, error) {
	if client == nil {
		return nil, errors.New("backoff: nil client")
	}
	return &Proxy{
		client: reflect.ValueOf(client),
		policy: New(opts...),
	}, nil
}

// Client returns the wrapped client.
func (p *Proxy) Client() any { return p.client.Interface() }

// With derives a child proxy around the same client with the given options
// applied on top of this proxy's configuration.
func (p *Proxy) With(opts ...Option) *Proxy {
	return &Proxy{client: p.client, policy: p.policy.With(opts...)}
}

// Resolve looks up a member by name. A method or non-nil func field resolves
// to a freshly constructed CallFunc governed by the proxy's policy; any
// other field resolves to its value unchanged. Lookup is side-effect-free.
// Unknown names fail with ErrAttributeNotFound.
func (p *Proxy) Resolve(name string) (any, error) {
	if m := p.client.MethodByName(name); m.IsValid() {
		return p.wrap(m), nil
	}

	v := p.client
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		f := v.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			if f.Kind() == reflect.Func && !f.IsNil() {
				return p.wrap(f), nil
			}
			return f.Interface(), nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
}

// Call resolves a callable member and invokes it under the policy.
func (p *Proxy) Call(ctx context.Context, name string, args ...any) (any, error) {
	attr, err := p.Resolve(name)
	if err != nil {
		return nil, err
	}
	call, ok := attr.(CallFunc)
	if !ok {
		return nil, fmt.Errorf("backoff: attribute %q is not callable", name)
	}
	return call(ctx, args...)
}

func (p *Proxy) wrap(fn reflect.Value) CallFunc {
	return func(ctx context.Context, args ...any) (any, error) {
		return p.policy.Execute(ctx, func(ctx context.Context) (any, error) {
			return invoke(ctx, fn, args)
		})
	}
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// invoke calls fn with args mapped onto its signature. The trailing error
// return, when present, is the classified failure channel; remaining returns
// become the result.
func invoke(ctx context.Context, fn reflect.Value, args []any) (any, error) {
	t := fn.Type()

	in := make([]reflect.Value, 0, t.NumIn())
	if t.NumIn() > 0 && t.In(0) == ctxType {
		in = append(in, reflect.ValueOf(ctx))
	}

	want := t.NumIn() - len(in)
	if t.IsVariadic() {
		if len(args) < want-1 {
			return nil, fmt.Errorf("backoff: %d args provided, at least %d expected", len(args), want-1)
		}
	} else if len(args) != want {
		return nil, fmt.Errorf("backoff: %d args provided, %d expected", len(args), want)
	}

	for i, arg := range args {
		idx := len(in)
		var pt reflect.Type
		if t.IsVariadic() && idx >= t.NumIn()-1 {
			pt = t.In(t.NumIn() - 1).Elem()
		} else {
			pt = t.In(idx)
		}
		if arg == nil {
			in = append(in, reflect.Zero(pt))
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("backoff: arg %d: %s is not assignable to %s", i, av.Type(), pt)
		}
		in = append(in, av)
	}

	out := fn.Call(in)

	var callErr error
	if n := len(out); n > 0 && out[n-1].Type().Implements(errType) {
		if !out[n-1].IsNil() {
			callErr = out[n-1].Interface().(error)
		}
		out = out[:n-1]
	}
	if callErr != nil {
		return nil, callErr
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		vals := make([]any, len(out))
		for i := range out {
			vals[i] = out[i].Interface()
		}
		return vals, nil
	}
}
