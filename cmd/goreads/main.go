package main

import (
	"os"

	"github.com/goreads/goreads/internal/cli"
	"github.com/goreads/goreads/internal/version"
)

func main() {
	code := cli.Execute(version.Version, os.Args[1:])
	os.Exit(code)
}
