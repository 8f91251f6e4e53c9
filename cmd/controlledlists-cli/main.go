package main

import "controlledlists/cmd/controlledlists-cli/cmd"

func main() {
	cmd.Execute()
}
