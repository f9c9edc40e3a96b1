// Command snipfmt serves the snippet catalog and formats YAML and JSON.
package main

import "github.com/jonwraymond/snipfmt/cli"

func main() {
	cli.Execute()
}
