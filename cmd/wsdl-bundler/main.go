package main

import "wsdl-bundler/internal/cli"

func main() {
	cli.Execute()
}
