package main

import "github.com/peekknuf/eda/cmd"

func main() {
	cmd.Execute()
}
