package main

import "github.com/oshokin/soundlock/cmd/soundlock/cmd"

func main() {
	cmd.Execute()
}
