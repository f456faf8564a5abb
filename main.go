package main

import "github.com/pjsh-lang/pjsh/cmd"

func main() {
	cmd.Execute()
}
