package main

import "github.com/naka-gawa/github-snapshot/cmd"

func main() {
	cmd.Execute()
}
