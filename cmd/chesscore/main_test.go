package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"help", flag.ErrHelp, 2},
		{"interrupted", fmt.Errorf("perft: %w", context.Canceled), 130},
		{"failure", errors.New("3 perft checks failed"), 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	for _, c := range commands {
		if got := lookup(c.name); got == nil || got.name != c.name {
			t.Errorf("lookup(%q) = %v", c.name, got)
		}
	}
	if got := lookup("book"); got != nil {
		t.Errorf("lookup(book) = %q, want nil", got.name)
	}
}
