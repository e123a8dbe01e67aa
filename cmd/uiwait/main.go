package main

import "github.com/devicelab-dev/uiwait/pkg/cli"

func main() {
	cli.Execute()
}
