package main

import "github.com/notargets/gopic/cmd"

func main() {
	cmd.Execute()
}
