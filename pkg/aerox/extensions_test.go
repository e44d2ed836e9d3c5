package aerox

import "testing"

type userClaims struct {
	UserID string
}

type requestTrace struct {
	TraceID string
}

func TestExtensionsSetGet(t *testing.T) {
	e := &Extensions{}
	e.Set(userClaims{UserID: "abc"})

	got, ok := ExtensionsGet[userClaims](e)
	if !ok {
		t.Fatalf("ExtensionsGet: want ok=true")
	}
	if got.UserID != "abc" {
		t.Fatalf("got %+v, want UserID=abc", got)
	}

	if _, ok := ExtensionsGet[requestTrace](e); ok {
		t.Fatalf("ExtensionsGet[requestTrace]: want ok=false, nothing was set")
	}
}

func TestExtensionsOverwriteSameType(t *testing.T) {
	e := &Extensions{}
	e.Set(userClaims{UserID: "first"})
	e.Set(userClaims{UserID: "second"})

	got, ok := ExtensionsGet[userClaims](e)
	if !ok || got.UserID != "second" {
		t.Fatalf("got %+v, ok=%v, want UserID=second", got, ok)
	}
}

func TestExtensionsNilSafe(t *testing.T) {
	var e *Extensions
	if _, ok := ExtensionsGet[userClaims](e); ok {
		t.Fatalf("ExtensionsGet on nil Extensions: want ok=false")
	}
}
