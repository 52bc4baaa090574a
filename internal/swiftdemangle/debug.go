package swiftdemangle

import (
	"log"
	"os"
)

var debugEnabled = os.Getenv("SWIFTDEMANGLE_DEBUG") != ""

func debugf(format string, args ...any) {
	if debugEnabled {
		log.Printf("swiftdemangle: "+format, args...)
	}
}
