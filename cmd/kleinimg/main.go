package main

import "kleinimg/cmd/kleinimg/cmd"

func main() {
	cmd.Execute()
}
