// layoutd parses dashboard layout YAML for live editor previews.
//
// It can be used as a one-shot tool against files, or as a daemon that keeps
// one parse worker per open editor buffer behind an HTTP API.
//
// Usage:
//
//	# Print the object outline of a layout file
//	layoutd parse dashboard.yaml
//
//	# Print the sidebar navigation as JSON
//	layoutd nav dashboard.yaml --format json
//
//	# Resolve the object under an editor selection
//	layoutd closest dashboard.yaml --start 12 --end 14
//
//	# Check many files for syntax errors and unrecognized items
//	layoutd check layouts/*.yaml
//
//	# Re-parse a file every time it is saved
//	layoutd watch dashboard.yaml
//
//	# Start the HTTP daemon
//	layoutd serve --config /etc/layoutd/config.yaml
package main

func main() {
	Execute()
}
