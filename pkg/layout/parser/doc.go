// Package parser converts dashboard layout YAML into the object tree defined
// in package ast.
//
// The parser is built for live editor buffers: the text it receives is often
// in the middle of an edit and therefore invalid. Parse never returns an
// error. Shapes that cannot be classified are dropped, and when the YAML
// itself does not decode the parser keeps the longest line prefix that does,
// so everything the user has already finished typing stays visible.
//
// # Basic Usage
//
//	p := parser.NewParser()
//	doc := p.Parse(`
//	title: Demo
//	layout:
//	  - section: Intro
//	    content:
//	      - page: Home
//	        content:
//	          - Markdown:
//	              text: hello
//	`)
//
//	fmt.Println(doc.Title())
//	page := doc.FindClosestPage(6, 6)
//
// # Configuration
//
//	p := parser.NewParser().
//	    WithIDStrategy(parser.IDStrategyRandom). // New ids on every parse
//	    WithMaxRecoveryAttempts(4).              // Prefix retries after a syntax error
//	    WithLogger(logger)                       // Debug output for dropped items
//
// # Object Identity
//
// With IDStrategyStable (the default) an object's id is a name-based UUID of
// its structural path: the chain of type and name pairs from the document
// root, plus an ordinal for identically named siblings. Editing another part
// of the document leaves the id unchanged, so a caller can keep the current
// page selected across re-parses. IDStrategyRandom regenerates every id on
// every parse.
//
// # Classification
//
// Top-level keys title (scalar), options (mapping) and layout (sequence) are
// recognized; the first occurrence of each wins and anything else is ignored.
// Layout items are classified in this order:
//
//	scalar                                   -> PLAIN_TEXT
//	{section: <scalar>, content: [...], icon?} -> SECTION
//	{group: <scalar>, content: [...], icon?}   -> GROUP
//	{page: <scalar>, content: [...], icon?}    -> PAGE
//	{<name>: {<arguments>}}                    -> PLUGIN
//
// Any other mapping is omitted.
package parser
