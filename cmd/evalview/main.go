// cmd/evalview/main.go
package main

import (
	cmd "github.com/mfuller/evalview/internal/cli"
)

var executeCmd = cmd.Execute

// main starts the evalview CLI application by delegating to the
// cobra root command defined in the evalview package. It does not
// take any arguments and does not return a value.
func main() {
	executeCmd()
}
