package aerox

import (
	"errors"
	"testing"

	"aerox/internal/aeroxerr"
)

func TestRouterDuplicateRegistration(t *testing.T) {
	r := NewRouter()
	first := HandlerFunc(func(ctx *Context) error { return nil })
	second := HandlerFunc(func(ctx *Context) error { return errors.New("should never run") })

	if err := r.Register(1, first); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := r.Register(1, second)
	if err == nil {
		t.Fatalf("second Register: want RouteExists error")
	}
	if kind, ok := aeroxerr.KindOf(err); !ok || kind != aeroxerr.Router {
		t.Fatalf("second Register error kind = %v, want Router", err)
	}

	ctx := &Context{MessageID: 1}
	if err := r.Dispatch(ctx); err != nil {
		t.Fatalf("Dispatch after duplicate register ran the second handler: %v", err)
	}
}

func TestRouterNotFound(t *testing.T) {
	r := NewRouter()
	ctx := &Context{MessageID: 9999}
	err := r.Dispatch(ctx)
	if err == nil {
		t.Fatalf("Dispatch on unregistered id: want error")
	}
	if kind, ok := aeroxerr.KindOf(err); !ok || kind != aeroxerr.Router {
		t.Fatalf("Dispatch error kind = %v, want Router", err)
	}
}
