package main

import "github.com/fakeyudi/pomodouroboros/cmd"

func main() {
	cmd.Execute()
}
