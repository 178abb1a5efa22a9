package main

import (
	"github.com/CyberShadow/git-splice/cmd"
)

var (
	version = "0.0.1"
)

func main() {
	cmd.Execute(version)
}
