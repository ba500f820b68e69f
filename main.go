// Command improtron-osc receives OSC show-control messages and turns them into actions.
package main

import "github.com/chabad360/improtron-osc/cmd"

func main() {
	cmd.Execute()
}
