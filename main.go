package main

import "github.com/tranvictor/chainlens/cmd"

func main() {
	cmd.Execute()
}
