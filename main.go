package main

import "github.com/deploymenttheory/go-keyblob/cmd"

func main() {
	cmd.Execute()
}
