package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Step is one segment of a Path, a field name with optional list indices.
type Step struct {
	Name    string
	Indices []int
}

func (s Step) String() string {
	b := new(strings.Builder)
	b.WriteString(s.Name)
	for _, i := range s.Indices {
		fmt.Fprintf(b, "[%d]", i)
	}
	return b.String()
}

// Path addresses a node in a tag tree, for example "abilities.mayfly" or
// "lastOpenedWithVersion[0]". Names may not contain '.', '[' or ']'.
type Path []Step

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// ParsePath parses a dot separated path with optional [i] list indices.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, errors.New("empty path")
	}
	segs := strings.Split(s, ".")
	p := make(Path, 0, len(segs))
	for _, seg := range segs {
		step, err := parseStep(seg)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", s, err)
		}
		p = append(p, step)
	}
	return p, nil
}

func parseStep(seg string) (Step, error) {
	if seg == "" {
		return Step{}, errors.New("empty segment")
	}
	open := strings.IndexByte(seg, '[')
	if open == -1 {
		if strings.ContainsRune(seg, ']') {
			return Step{}, fmt.Errorf("unexpected ']' in segment %q", seg)
		}
		return Step{Name: seg}, nil
	}
	if open == 0 {
		return Step{}, fmt.Errorf("segment %q has no name", seg)
	}
	step := Step{Name: seg[:open]}
	rest := seg[open:]
	for rest != "" {
		if rest[0] != '[' {
			return Step{}, fmt.Errorf("malformed index in segment %q", seg)
		}
		closing := strings.IndexByte(rest, ']')
		if closing == -1 {
			return Step{}, fmt.Errorf("missing ']' in segment %q", seg)
		}
		n, err := strconv.Atoi(rest[1:closing])
		if err != nil || n < 0 {
			return Step{}, fmt.Errorf("bad index %q in segment %q", rest[1:closing], seg)
		}
		step.Indices = append(step.Indices, n)
		rest = rest[closing+1:]
	}
	return step, nil
}
