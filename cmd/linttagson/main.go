package main

import (
	"github.com/gork-labs/tagson/internal/linttagson"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(linttagson.Analyzer)
}
