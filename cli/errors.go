package cli

import (
	"errors"

	"github.com/MakeNowJust/heredoc"
)

var (
	ErrConfigNotFound = errors.New(heredoc.Doc(`
	Config file not found. Loading from defaults...

	Run "finder config init" to initialize a new configuration file
	Run "finder help environment" for more information.

	Alternatively, make a "finder.yaml" file in the current directory from the example given
`))

	errDescribeUnsupported = errors.New("the elasticsearch backend cannot describe objects, use the postgres backend")
)
