package main

import "github.com/lorekeeper/lorekeeper/cmd"

func main() {
	cmd.Execute()
}
