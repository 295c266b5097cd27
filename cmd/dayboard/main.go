package main

import "dayboard/cmd/dayboard/cmd"

func main() {
	cmd.Execute()
}
