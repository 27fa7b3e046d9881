package main

import "github.com/sloppycoder/sec-doc-tool/internal/cli"

func main() {
	cli.Execute()
}
