package main

import "github.com/apitestkit/apitestkit/pkg/cli"

func main() {
	cli.Execute()
}
