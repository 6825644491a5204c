package cmd

import "github.com/spf13/pflag"

// flagAlias registers a hidden alias (e.g. --format for --output) bound to
// the same value. Changed is tracked per name, so callers that care check both.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		return
	}
	fs.AddFlag(&pflag.Flag{
		Name:        alias,
		Usage:       f.Usage,
		Value:       f.Value,
		DefValue:    f.DefValue,
		NoOptDefVal: f.NoOptDefVal,
		Hidden:      true,
	})
}
