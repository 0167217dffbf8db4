// Package prompts holds the system prompt set used by the chat engine.
package prompts

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed persona.toml
var embeddedPersona string

// Set is a base persona plus the two mode directives.
type Set struct {
	Base               string `toml:"base"`
	InterviewDirective string `toml:"interview_directive"`
	StandardDirective  string `toml:"standard_directive"`
}

// Default returns the embedded prompt set.
func Default() (*Set, error) {
	return parse(embeddedPersona, "embedded persona.toml")
}

// LoadFile reads a prompt set from a TOML file on disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	return parse(string(data), path)
}

func parse(data, source string) (*Set, error) {
	var s Set
	if _, err := toml.Decode(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	s.Base = strings.TrimSpace(s.Base)
	if s.Base == "" || s.InterviewDirective == "" || s.StandardDirective == "" {
		return nil, fmt.Errorf("%s: base, interview_directive and standard_directive are required", source)
	}
	return &s, nil
}

// System builds the system instruction for a run.
func (s *Set) System(interviewMode bool) string {
	directive := s.StandardDirective
	if interviewMode {
		directive = s.InterviewDirective
	}
	return s.Base + "\n\n" + directive
}
