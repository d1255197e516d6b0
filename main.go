package main

import "github.com/notargets/pqtorus/cmd"

func main() {
	cmd.Execute()
}
