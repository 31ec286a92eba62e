package script

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Script is an ordered sequence of directives, one per line.
type Script struct {
	lines []string
}

// Add appends a directive verbatim.
func (s *Script) Add(directive string) {
	s.lines = append(s.lines, directive)
}

// Lines returns a copy of the directives in order.
func (s *Script) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Bytes renders the script with every directive newline-terminated.
func (s *Script) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range s.lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteFile writes the script to path and syncs it. The file is closed
// before WriteFile returns.
func (s *Script) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create script: %w", err)
	}
	if _, err := f.Write(s.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write script: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync script: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close script: %w", err)
	}
	return nil
}

// command assembles a single directive from a name and optional flags.
type command struct {
	parts []string
}

func newCommand(name string) *command {
	return &command{parts: []string{name}}
}

// flag appends opt when on is set.
func (c *command) flag(on bool, opt string) *command {
	if on {
		c.parts = append(c.parts, opt)
	}
	return c
}

// option appends "opt value" when value is non-empty.
func (c *command) option(opt, value string) *command {
	if value != "" {
		c.parts = append(c.parts, opt, value)
	}
	return c
}

// arg appends a positional argument.
func (c *command) arg(value string) *command {
	c.parts = append(c.parts, value)
	return c
}

func (c *command) String() string {
	return strings.Join(c.parts, " ")
}
