package main

import "github.com/gaurav-prasanna/termscan/cmd"

func main() {
	cmd.Execute()
}
