// Command kanban is a terminal client for Kanban boards.
package main

import "github.com/mesh-intelligence/kanban/internal/cli"

func main() {
	cli.Execute()
}
