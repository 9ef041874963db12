// Command gen-config-schema regenerates the embedded configuration file
// schema from the Go config types.
package main

import (
	"log"
	"os"

	"github.com/tagmill/tagmill/internal/config"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %v OUTPUT", os.Args[0])
	}

	bs, err := config.ReflectSchema()
	if err != nil {
		log.Fatalf("reflect schema: %v", err)
	}
	if err := os.WriteFile(os.Args[1], bs, 0644); err != nil {
		log.Fatalf("write %v: %v", os.Args[1], err)
	}
}
