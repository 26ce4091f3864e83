package main

import "court-compare/cmd"

func main() {
	cmd.Execute()
}
