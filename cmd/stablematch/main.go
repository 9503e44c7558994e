// SPDX-License-Identifier: MIT

// Command stablematch generates matching instances, solves them with
// deferred acceptance and verifies candidate matchings for stability.
//
//	stablematch generate --kind random --n 50 --seed 7 -o market.yaml
//	stablematch solve -i market.yaml --workers 4 -o matching.yaml
//	stablematch verify -i market.yaml -m matching.yaml
//	stablematch enumerate -i small.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
