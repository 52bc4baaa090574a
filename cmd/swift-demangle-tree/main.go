package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if cerr := closeOutput(); cerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cerr)
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}
