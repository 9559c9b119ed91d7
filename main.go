package main

import "verbena/cmd"

func main() {
	cmd.Execute()
}
