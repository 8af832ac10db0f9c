package main

import "github.com/notargets/sv1d/cmd"

func main() {
	cmd.Execute()
}
