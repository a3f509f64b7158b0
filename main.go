package main

import (
	"github.com/ardent-devices/scanlink/cmd"
)

func main() {
	cmd.Execute()
}
