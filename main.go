package main

import "github.com/entericlab/entericreport/cmd"

func main() {
	cmd.Execute()
}
