package main

import "whiteboard/cmd/whiteboard-cli/cmd"

func main() {
	cmd.Execute()
}
