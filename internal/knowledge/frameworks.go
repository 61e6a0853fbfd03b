package knowledge

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed frameworks.yaml
var defaultFrameworks []byte

// Category is one numbered section of an industry checklist.
type Category struct {
	Category string   `yaml:"category"`
	Items    []string `yaml:"items"`
}

// Framework is the target checklist for one industry.
type Framework struct {
	Industry  string     `yaml:"industry"`
	Aliases   []string   `yaml:"aliases"`
	Checklist []Category `yaml:"checklist"`
	// Starter is returned by the audit fast path for an empty profile.
	Starter []string `yaml:"starter"`
	// Services is the vocabulary the drafting boundary check looks for.
	Services []string `yaml:"services"`
}

// Describe renders the checklist in the numbered form used in prompts.
func (f Framework) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FRAMEWORK FOR %s:\n", strings.ToUpper(f.Industry))
	for i, c := range f.Checklist {
		fmt.Fprintf(&sb, "%d. %s:\n", i+1, c.Category)
		for _, it := range c.Items {
			fmt.Fprintf(&sb, "   - %s\n", it)
		}
		if i < len(f.Checklist)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type frameworkFile struct {
	Default    string      `yaml:"default"`
	Frameworks []Framework `yaml:"frameworks"`
}

// Frameworks is a read-only registry keyed by industry name or alias,
// case-insensitively.
type Frameworks struct {
	byName   map[string]*Framework
	fallback *Framework
}

// DefaultFrameworks returns the embedded registry.
func DefaultFrameworks() *Frameworks {
	fw, err := ParseFrameworks(defaultFrameworks)
	if err != nil {
		panic(fmt.Sprintf("embedded frameworks: %v", err))
	}
	return fw
}

// LoadFrameworks reads a registry from a YAML file.
func LoadFrameworks(path string) (*Frameworks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("frameworks: read %s: %w", path, err)
	}
	fw, err := ParseFrameworks(data)
	if err != nil {
		return nil, fmt.Errorf("frameworks: %s: %w", path, err)
	}
	return fw, nil
}

// ParseFrameworks decodes a registry. The default entry must exist and carry
// a starter list, since the audit fast path depends on it.
func ParseFrameworks(data []byte) (*Frameworks, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("frameworks: payload is empty")
	}
	var file frameworkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("frameworks: decode: %w", err)
	}

	fw := &Frameworks{byName: map[string]*Framework{}}
	for i := range file.Frameworks {
		f := &file.Frameworks[i]
		if strings.TrimSpace(f.Industry) == "" {
			return nil, fmt.Errorf("frameworks: entry %d has no industry", i)
		}
		for _, name := range append([]string{f.Industry}, f.Aliases...) {
			key := normalize(name)
			if _, dup := fw.byName[key]; dup {
				return nil, fmt.Errorf("frameworks: duplicate industry %q", name)
			}
			fw.byName[key] = f
		}
	}

	fw.fallback = fw.byName[normalize(file.Default)]
	if fw.fallback == nil {
		return nil, fmt.Errorf("frameworks: default %q is not defined", file.Default)
	}
	if len(fw.fallback.Starter) == 0 {
		return nil, fmt.Errorf("frameworks: default %q has no starter suggestions", file.Default)
	}
	return fw, nil
}

// Lookup returns the dedicated framework for an industry. ok is false when
// the industry has none (including the default entry itself).
func (fw *Frameworks) Lookup(industry string) (Framework, bool) {
	f, found := fw.byName[normalize(industry)]
	if !found || f == fw.fallback {
		return Framework{}, false
	}
	return *f, true
}

// For returns the industry's framework, or the default one.
func (fw *Frameworks) For(industry string) Framework {
	if f, ok := fw.Lookup(industry); ok {
		return f
	}
	return *fw.fallback
}

// Starter returns the fast-path suggestions for an empty profile, falling
// back to the default starter when the industry's own list is empty.
func (fw *Frameworks) Starter(industry string) []string {
	f := fw.For(industry)
	if len(f.Starter) == 0 {
		f = *fw.fallback
	}
	return append([]string{}, f.Starter...)
}

// Industries lists the dedicated industries, sorted.
func (fw *Frameworks) Industries() []string {
	seen := map[*Framework]bool{}
	var out []string
	for _, f := range fw.byName {
		if f == fw.fallback || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f.Industry)
	}
	slices.Sort(out)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
