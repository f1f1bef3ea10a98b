package parser

import (
	"fmt"
	"log/slog"
	"time"

	"webviz-hq/layoutd/pkg/config"
	"webviz-hq/layoutd/pkg/layout/ast"
)

// DefaultMaxRecoveryAttempts is the number of prefix retries made after a
// YAML syntax error before the parse gives up with an empty document.
const DefaultMaxRecoveryAttempts = 8

// Parser parses layout documents into object trees.
// A Parser holds configuration only, so one instance may be shared by
// concurrent callers.
type Parser struct {
	idStrategy          IDStrategy
	maxRecoveryAttempts int
	logger              *slog.Logger
}

// Stats describes the work done by one parse.
type Stats struct {
	Duration   time.Duration
	Recoveries int  // Prefix retries needed after syntax errors
	Omitted    int  // Layout items and arguments that matched no shape
	Failed     bool // Decoding failed entirely and the document is empty
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		idStrategy:          IDStrategyStable,
		maxRecoveryAttempts: DefaultMaxRecoveryAttempts,
		logger:              slog.Default(),
	}
}

// FromConfig creates a parser from the parser configuration section.
func FromConfig(cfg config.ParserConfig) (*Parser, error) {
	strategy, err := ParseIDStrategy(cfg.IDStrategy)
	if err != nil {
		return nil, fmt.Errorf("invalid parser config: %w", err)
	}
	return NewParser().
		WithIDStrategy(strategy).
		WithMaxRecoveryAttempts(cfg.MaxRecoveryAttempts), nil
}

// WithIDStrategy sets how object ids are assigned.
func (p *Parser) WithIDStrategy(strategy IDStrategy) *Parser {
	p.idStrategy = strategy
	return p
}

// WithMaxRecoveryAttempts sets the number of prefix retries after a syntax
// error. Zero disables recovery.
func (p *Parser) WithMaxRecoveryAttempts(n int) *Parser {
	if n < 0 {
		n = 0
	}
	p.maxRecoveryAttempts = n
	return p
}

// WithLogger sets the logger used for debug output.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// IDStrategy returns the configured id strategy.
func (p *Parser) IDStrategy() IDStrategy {
	return p.idStrategy
}

// Parse converts layout text into a document. It never fails: invalid or
// partial input yields the tree of its longest parseable prefix, or an empty
// document.
func (p *Parser) Parse(text string) *ast.Document {
	doc, _ := p.ParseWithStats(text)
	return doc
}

// ParseBytes parses layout text held in a byte slice.
func (p *Parser) ParseBytes(data []byte) *ast.Document {
	return p.Parse(string(data))
}

// ParseWithStats parses text like Parse and also reports what the parse did.
func (p *Parser) ParseWithStats(text string) (doc *ast.Document, stats Stats) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("layout parse aborted", "panic", fmt.Sprint(r))
			doc = ast.Empty()
			stats.Failed = true
		}
		stats.Duration = time.Since(start)
	}()

	nodes, recoveries, err := decodeWithRecovery(text, p.maxRecoveryAttempts)
	stats.Recoveries = recoveries
	if err != nil {
		p.logger.Debug("layout yaml decode failed", "error", err, "recoveries", recoveries)
		stats.Failed = true
		return ast.Empty(), stats
	}
	if recoveries > 0 {
		p.logger.Debug("layout parsed from valid prefix", "recoveries", recoveries)
	}

	b := newBuilder(p.idStrategy, p.logger, splitLines(text))
	for _, node := range nodes {
		b.addDocument(node)
	}
	stats.Omitted = b.omitted

	doc, err = ast.NewDocument(b.objects)
	if err != nil {
		p.logger.Debug("layout index build failed", "error", err)
		stats.Failed = true
		return ast.Empty(), stats
	}
	return doc, stats
}
