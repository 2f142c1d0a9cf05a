package main

import "github.com/jacqinthebox/todolist/cmd"

func main() {
	cmd.Execute()
}
