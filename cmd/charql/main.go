package main

import "go.appointy.com/charql/internal/cli"

func main() {
	cli.Execute()
}
