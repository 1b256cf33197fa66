package main

import "github.com/Brianmulinge/wanderi/cmd"

func main() {
	cmd.Execute()
}
