package cli

import "errors"

// ErrNoStdinTarget is returned when data was piped into stdin but the IR
// declares no input with stdin=true to receive it.
var ErrNoStdinTarget = errors.New(`cli: stdin was piped but no input declares "stdin": true`)
