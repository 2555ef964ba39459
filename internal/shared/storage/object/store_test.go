package object

import (
	"errors"
	"testing"
)

func TestCleanKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
		err  bool
	}{
		{in: "abc.pdf", want: "abc.pdf"},
		{in: "/uploads/abc.pdf", want: "uploads/abc.pdf"},
		{in: "uploads/../abc.pdf", err: true},
		{in: "../abc.pdf", err: true},
		{in: "a\\b.pdf", err: true},
		{in: "", err: true},
		{in: "uploads//abc.pdf", err: true},
	}
	for _, tc := range cases {
		got, err := CleanKey(tc.in)
		if tc.err {
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("%q: expected ErrInvalidKey, got %v (%q)", tc.in, err, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %q, got %q (%v)", tc.in, tc.want, got, err)
		}
	}
}
