package perft

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandardSuite(t *testing.T) {
	s := Standard()
	if s.Name != "standard" || len(s.Cases) == 0 {
		t.Fatalf("Standard() = %q with %d cases", s.Name, len(s.Cases))
	}

	var reported int
	outcomes, err := s.Run(context.Background(), 2, 0, func(Outcome) { reported++ })
	if err != nil {
		t.Fatal(err)
	}
	if reported != len(outcomes) {
		t.Errorf("report called %d times for %d outcomes", reported, len(outcomes))
	}
	for _, o := range outcomes {
		if o.Depth > 2 {
			t.Errorf("%s ran depth %d beyond limit", o.Case, o.Depth)
		}
		if !o.Passed() {
			t.Errorf("%s depth %d: got %d, want %d", o.Case, o.Depth, o.Got, o.Want)
		}
	}
}

func TestLoadSuite(t *testing.T) {
	const doc = `
name: tiny
cases:
  - name: start
    fen: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
    depths: {1: 20, 2: 401}
`
	s, err := LoadSuite(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	outcomes, err := s.Run(context.Background(), 0, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("len(outcomes) = %d, want 2", len(outcomes))
	}
	if !outcomes[0].Passed() || outcomes[0].Depth != 1 {
		t.Errorf("depth 1 outcome = %+v, want pass", outcomes[0])
	}
	if outcomes[1].Passed() {
		t.Errorf("depth 2 outcome = %+v, want mismatch", outcomes[1])
	}
}

func TestLoadSuiteErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad fen", "name: x\ncases:\n  - name: a\n    fen: \"8/8 w - - 0 1\"\n    depths: {1: 1}\n"},
		{"no depths", "name: x\ncases:\n  - name: a\n    fen: \"4k3/8/8/8/8/8/8/4K3 w - - 0 1\"\n"},
		{"unknown field", "name: x\nextra: 1\n"},
		{"not yaml", "{{{"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadSuite(strings.NewReader(tc.doc)); err == nil {
				t.Error("LoadSuite succeeded, want error")
			}
		})
	}
}

func TestLoadSuiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	doc := "name: file\ncases:\n  - name: kings\n    fen: \"4k3/8/8/8/8/8/8/4K3 w - - 0 1\"\n    depths: {1: 5}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSuiteFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "file" || len(s.Cases) != 1 {
		t.Errorf("LoadSuiteFile = %+v", s)
	}
	if _, err := LoadSuiteFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSuiteFile(missing) succeeded")
	}
}
