package main

import "github.com/K0NGR3SS/fraudprobe/commands"

func main() {
	commands.Execute()
}
