package engine

import (
	"time"

	"github.com/go-refgraph/refgraph"
)

func nsToDuration(ns int64) time.Duration {
	return time.Duration(ns)
}

func userAgent() string {
	return refgraph.UserAgent()
}
