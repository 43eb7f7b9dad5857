package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NotFound("appointment %s not found", "x"), KindNotFound},
		{fmt.Errorf("wrapped: %w", Conflict("overlap")), KindConflict},
		{BadRequest("missing notes"), KindBadRequest},
		{Forbidden("denied"), KindForbidden},
		{Unauthorized("no token"), KindUnauthorized},
		{errors.New("boom"), KindStorage},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.want {
			t.Fatalf("KindOf(%v) = %s, want %s", c.err, got, c.want)
		}
	}
}

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("store: %w", NotFound("appointment 1 not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is to match ErrNotFound")
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("did not expect a conflict match")
	}
}

func TestStorageUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage(cause, "list appointments")
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if err.Error() != "list appointments: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
