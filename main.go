package main

import "github.com/lepinkainen/pdbrowse/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
