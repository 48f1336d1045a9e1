package rich

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/vovanec/report/handler"
)

// Theme names the colours used by the rich handler. Values are ANSI colour
// numbers ("1") or hex codes ("#ff6b6b"); an empty value leaves that part
// uncoloured.
type Theme struct {
	Error    string `yaml:"error"`
	Location string `yaml:"location"`
	Function string `yaml:"function"`
	File     string `yaml:"file"`
	Fields   string `yaml:"fields"`
	Label    string `yaml:"label"`
	Hidden   string `yaml:"hidden"`
}

// DefaultTheme returns the built-in colours.
func DefaultTheme() Theme {
	return Theme{
		Error:    "1",
		Location: "5",
		Function: "2",
		File:     "5",
		Fields:   "6",
		Label:    "6",
		Hidden:   "6",
	}
}

// ParseTheme decodes a YAML theme. Keys missing from data keep their
// default colour; unknown keys are rejected.
func ParseTheme(data []byte) (Theme, error) {
	t := DefaultTheme()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Theme{}, fmt.Errorf("parse theme: %w", err)
	}
	return t, nil
}

// LoadTheme reads a YAML theme from path.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}
	return ParseTheme(data)
}

// palette applies a Theme under a colour profile.
type palette struct {
	profile termenv.Profile
	theme   Theme
}

func (p palette) enabled() bool {
	return p.profile != termenv.Ascii
}

func (p palette) paint(color string) handler.Paint {
	if color == "" || !p.enabled() {
		return handler.Identity
	}
	c := p.profile.Color(color)
	return func(s string) string {
		return p.profile.String(s).Foreground(c).String()
	}
}

func (p palette) bold(s string) string {
	if !p.enabled() {
		return s
	}
	return p.profile.String(s).Bold().String()
}
