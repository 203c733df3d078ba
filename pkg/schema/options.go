package schema

import (
	"github.com/charmbracelet/log"

	"github.com/benjaminschreck/go-msoffice-shared/internal/logging"
)

type parseConfig struct {
	strict bool
	logger *log.Logger
}

// Option configures Parse.
type Option func(*parseConfig)

// WithStrict selects strict (the default) or lenient parsing. A lenient parse keeps
// going after schema problems and reports them all as ParseErrors next to the tree.
func WithStrict(strict bool) Option {
	return func(c *parseConfig) {
		c.strict = strict
	}
}

// WithLogger sets the logger that receives debug records about preserved content.
func WithLogger(l *log.Logger) Option {
	return func(c *parseConfig) {
		c.logger = l
	}
}

func newParseConfig(opts []Option) parseConfig {
	c := parseConfig{strict: true}
	for _, o := range opts {
		o(&c)
	}
	if c.logger == nil {
		c.logger = logging.GetLogger()
	}
	return c
}

type writeConfig struct {
	declaration bool
	prefixes    map[string]string
}

// WriteOption configures Serialize.
type WriteOption func(*writeConfig)

// WithoutDeclaration omits the XML declaration.
func WithoutDeclaration() WriteOption {
	return func(c *writeConfig) {
		c.declaration = false
	}
}

// WithPrefixes supplies preferred prefixes keyed by namespace URI. Prefixes read from
// the source still take precedence.
func WithPrefixes(prefixes map[string]string) WriteOption {
	return func(c *writeConfig) {
		c.prefixes = prefixes
	}
}

func newWriteConfig(opts []WriteOption) writeConfig {
	c := writeConfig{declaration: true}
	for _, o := range opts {
		o(&c)
	}
	return c
}
