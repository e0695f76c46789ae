package main

import "data-loader/cmd"

func main() {
	cmd.Execute()
}
