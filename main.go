package main

import "github.com/scienceol/keepawake/cmd"

func main() {
	cmd.Execute()
}
