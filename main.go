package main

import "github.com/fretmotion/fretmotion/cmd"

func main() {
	cmd.Execute()
}
