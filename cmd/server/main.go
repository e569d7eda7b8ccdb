package main

import "github.com/strideworks/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
