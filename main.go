package main

import "github.com/notargets/gohybrid/cmd"

func main() {
	cmd.Execute()
}
