package main

import "github.com/mchmarny/termpulse/pkg/cli"

func main() {
	cli.Execute()
}
