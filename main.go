package main

import "projectindex/cmd"

func main() {
	cmd.Execute()
}
