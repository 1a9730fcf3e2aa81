package main

import "github.com/manucho/restate/cmd"

func main() {
	cmd.Execute()
}
