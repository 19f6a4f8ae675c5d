package config

import (
	"github.com/fatih/color"
)

var (
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Pink   = color.New(color.FgMagenta).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()

	// Version is stamped at build time with -ldflags.
	Version = "dev"
)
