//go:build js && wasm

package main

import (
	"fmt"

	"github.com/esimov/docscan/scanner"
)

func main() {
	c := scanner.NewCanvas()
	if err := c.Render(); err != nil {
		c.Alert(fmt.Sprint(err))
	}
}
