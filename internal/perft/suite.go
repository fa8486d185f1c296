package perft

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chesscore/internal/board"
)

//go:embed standard.yaml
var standardSuite []byte

// Suite is a named list of positions with known node counts.
type Suite struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// Case is one position and its expected node count per depth.
type Case struct {
	Name   string         `yaml:"name"`
	FEN    string         `yaml:"fen"`
	Depths map[int]uint64 `yaml:"depths"`
}

// Outcome is the result of checking one case at one depth.
type Outcome struct {
	Case    string
	FEN     string
	Depth   int
	Want    uint64
	Got     uint64
	Elapsed time.Duration
}

// Passed reports whether the counted nodes match the expected figure.
func (o Outcome) Passed() bool {
	return o.Got == o.Want
}

// LoadSuite decodes a YAML suite and checks that every FEN parses.
func LoadSuite(r io.Reader) (*Suite, error) {
	var s Suite
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode perft suite: %w", err)
	}
	for i, c := range s.Cases {
		if _, err := board.ParseFEN(c.FEN); err != nil {
			return nil, fmt.Errorf("perft suite %q case %d (%s): %w", s.Name, i, c.Name, err)
		}
		if len(c.Depths) == 0 {
			return nil, fmt.Errorf("perft suite %q case %d (%s): no depths", s.Name, i, c.Name)
		}
	}
	return &s, nil
}

// LoadSuiteFile reads a YAML suite from disk.
func LoadSuiteFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSuite(f)
}

// Standard returns the built-in suite of well-known positions.
func Standard() *Suite {
	s, err := LoadSuite(bytes.NewReader(standardSuite))
	if err != nil {
		panic(err)
	}
	return s
}

// Run counts every case at every listed depth up to maxDepth (all depths if
// maxDepth <= 0) and returns the outcomes in case order, shallow depths
// first. report, if not nil, is called after each outcome.
func (s *Suite) Run(ctx context.Context, maxDepth, workers int, report func(Outcome)) ([]Outcome, error) {
	var outcomes []Outcome
	for _, c := range s.Cases {
		pos, err := board.ParseFEN(c.FEN)
		if err != nil {
			return outcomes, err
		}

		depths := make([]int, 0, len(c.Depths))
		for d := range c.Depths {
			if maxDepth <= 0 || d <= maxDepth {
				depths = append(depths, d)
			}
		}
		slices.Sort(depths)

		for _, d := range depths {
			start := time.Now()
			got, err := Parallel(ctx, pos, d, workers)
			if err != nil {
				return outcomes, err
			}
			o := Outcome{
				Case:    c.Name,
				FEN:     c.FEN,
				Depth:   d,
				Want:    c.Depths[d],
				Got:     got,
				Elapsed: time.Since(start),
			}
			outcomes = append(outcomes, o)
			if report != nil {
				report(o)
			}
		}
	}
	return outcomes, nil
}
