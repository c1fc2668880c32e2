package main

import "github.com/kozaktomas/book-planner/cmd"

func main() {
	cmd.Execute()
}
