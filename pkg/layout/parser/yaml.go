package parser

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlErrorLine extracts the line number from yaml.v3 syntax errors
// ("yaml: line 7: mapping values are not allowed in this context").
var yamlErrorLine = regexp.MustCompile(`^yaml: line (\d+):`)

// maxAliasDepth bounds alias chains followed by resolve.
const maxAliasDepth = 16

// pair is one key/value entry of a mapping node.
type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

// decodeDocuments decodes every YAML document in text into node trees.
// The nodes keep the 1-based line of every token, which is all the builder
// needs to compute spans.
func decodeDocuments(text string) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var docs []*yaml.Node
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, &node)
	}
}

// decodeWithRecovery decodes text and, on a syntax error, searches for the
// longest line prefix that still decodes. yaml.v3 reports the line where the
// enclosing collection starts rather than the offending token, so that line
// only seeds the search: the text minus its last line is tried first (the
// common case while typing), then the prefix before the reported line, then
// the gap between the longest good and shortest bad prefix is bisected.
// Every decode after the first counts against maxAttempts, and the number
// made is returned.
func decodeWithRecovery(text string, maxAttempts int) ([]*yaml.Node, int, error) {
	docs, err := decodeDocuments(text)
	if err == nil {
		return docs, 0, nil
	}

	lines := splitLines(text)

	// good decodes (0 means nothing has yet), bad is known to fail.
	good, bad := 0, len(lines)
	var goodDocs []*yaml.Node
	lastErr := err

	attempts := 0
	for attempts < maxAttempts && bad-good > 1 {
		keep := nextPrefix(good, bad, attempts, lastErr)

		attempts++
		docs, err := decodeDocuments(strings.Join(lines[:keep], ""))
		if err != nil {
			bad, lastErr = keep, err
			continue
		}
		good, goodDocs = keep, docs
	}

	if good == 0 {
		return nil, attempts, lastErr
	}
	return goodDocs, attempts, nil
}

// nextPrefix picks the number of lines to try next, strictly between good
// and bad.
func nextPrefix(good, bad, attempts int, lastErr error) int {
	if attempts == 0 {
		return bad - 1
	}
	if attempts == 1 {
		if line, ok := errorLine(lastErr); ok && line-1 > good && line-1 < bad {
			return line - 1
		}
	}
	return good + (bad-good)/2
}

// errorLine returns the line reported by a yaml.v3 syntax error.
func errorLine(err error) (int, bool) {
	m := yamlErrorLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil || line < 1 {
		return 0, false
	}
	return line, true
}

// splitLines splits text after each newline. A trailing newline does not
// produce an empty final line.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// rawScalar returns a quoted scalar as written between its quotes, with
// escapes left uninterpreted. Plain scalars, and quoted ones that continue on
// a later line, return their decoded value.
func rawScalar(lines []string, n *yaml.Node) string {
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0 || n.Line < 1 || n.Line > len(lines) {
		return n.Value
	}

	line := []rune(strings.TrimRight(lines[n.Line-1], "\r\n"))
	start := n.Column - 1
	if start < 0 || start >= len(line) {
		return n.Value
	}
	quote := line[start]
	if quote != '"' && quote != '\'' {
		return n.Value
	}

	for i := start + 1; i < len(line); i++ {
		switch {
		case quote == '"' && line[i] == '\\':
			i++
		case line[i] == quote && quote == '\'' && i+1 < len(line) && line[i+1] == '\'':
			i++
		case line[i] == quote:
			return string(line[start+1 : i])
		}
	}
	return n.Value
}

// resolve follows alias nodes to their anchored target.
func resolve(n *yaml.Node) *yaml.Node {
	for i := 0; n != nil && n.Kind == yaml.AliasNode && i < maxAliasDepth; i++ {
		n = n.Alias
	}
	return n
}

func isScalar(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode
}

func isMapping(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.MappingNode
}

func isSequence(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.SequenceNode
}

// isEmpty reports a scalar with no source text, as produced for "key:" or a bare "-".
func isEmpty(n *yaml.Node) bool {
	return isScalar(n) && n.ShortTag() == "!!null" && n.Value == ""
}

// pairs returns the key/value entries of a mapping node in source order.
func pairs(m *yaml.Node) []pair {
	if !isMapping(m) {
		return nil
	}
	out := make([]pair, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, pair{key: m.Content[i], value: m.Content[i+1]})
	}
	return out
}

// endLine returns the line of the last leaf token under n, descending into
// the last item of each container. Empty containers and leaves report their
// own line.
func endLine(n *yaml.Node) int {
	for n != nil && len(n.Content) > 0 &&
		(n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode || n.Kind == yaml.DocumentNode) {
		n = n.Content[len(n.Content)-1]
	}
	if n == nil {
		return 0
	}
	return n.Line
}
