package main

import "github.com/josephlewis42/rawsh/cmd"

func main() {
	cmd.Execute()
}
