package main

import "github.com/curaious/ticktrack/cmd"

func main() {
	cmd.Execute()
}
