package aerox

import (
	"errors"
	"testing"
)

func TestMiddlewareOnionOrder(t *testing.T) {
	var events []string

	mkMw := func(name string) Middleware {
		return MiddlewareFunc(func(ctx *Context, next Next) error {
			events = append(events, "enter:"+name)
			err := next.Run(ctx)
			events = append(events, "exit:"+name)
			return err
		})
	}

	handler := HandlerFunc(func(ctx *Context) error {
		events = append(events, "handler")
		return nil
	})

	stack := NewStack().Use(mkMw("A")).Use(mkMw("B"))
	built := stack.Build(handler)

	if err := built.Handle(&Context{}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	want := []string{"enter:A", "enter:B", "handler", "exit:B", "exit:A"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestMiddlewareShortCircuit(t *testing.T) {
	var events []string
	handlerRan := false

	a := MiddlewareFunc(func(ctx *Context, next Next) error {
		events = append(events, "enter:A")
		err := next.Run(ctx)
		events = append(events, "exit:A")
		return err
	})
	shortCircuitErr := errors.New("denied")
	b := MiddlewareFunc(func(ctx *Context, next Next) error {
		events = append(events, "enter:B")
		return shortCircuitErr
	})
	handler := HandlerFunc(func(ctx *Context) error {
		handlerRan = true
		return nil
	})

	built := NewStack().Use(a).Use(b).Build(handler)
	err := built.Handle(&Context{})

	if !errors.Is(err, shortCircuitErr) {
		t.Fatalf("Handle error = %v, want %v", err, shortCircuitErr)
	}
	if handlerRan {
		t.Fatalf("terminal handler ran after short-circuit")
	}
	want := []string{"enter:A", "enter:B", "exit:A"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}
