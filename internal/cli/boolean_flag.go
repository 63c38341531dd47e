package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	switchTypeName         = "bool"
	switchEnabledLiteral   = "true"
	switchLiteralsListing  = "true, false, yes, no, on, off, 1, 0"
	errorSwitchValueFormat = "invalid value %q for %s; accepted values: %s"
	longFlagPrefix         = "--"
	shortFlagPrefix        = "-"
	flagValueSeparator     = "="
	argumentTerminator     = "--"
)

var switchLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseSwitchLiteral maps yes/no style input to a bool. Empty input enables.
func parseSwitchLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	enabled, known := switchLiterals[normalized]
	return enabled, known
}

// switchValue is an on/off flag value that also accepts an explicit literal.
type switchValue struct {
	target   *bool
	flagName string
}

func (value *switchValue) Set(input string) error {
	enabled, known := parseSwitchLiteral(input)
	if !known {
		return fmt.Errorf(errorSwitchValueFormat, input, longFlagPrefix+value.flagName, switchLiteralsListing)
	}
	*value.target = enabled
	return nil
}

func (value *switchValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *switchValue) Type() string {
	return switchTypeName
}

// registerBooleanFlag adds a switch such as --count-tokens or -t. A bare
// switch enables it; --count-tokens=no and -t=off set it explicitly. An empty
// shorthand registers the long form only.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	*target = defaultValue
	flag := flagSet.VarPF(&switchValue{target: target, flagName: name}, name, shorthand, usage)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = switchEnabledLiteral
}

// normalizeBooleanFlagArguments attaches a literal that follows a switch, so
// "--verbose no" and "-t yes" parse like "--verbose=no" and "-t=yes". A
// following argument that is not a literal stays positional, which keeps
// "-t ./src" meaning the path ./src.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	switches := switchSpellings(command)
	normalized := make([]string, 0, len(arguments))
	for position := 0; position < len(arguments); position++ {
		argument := arguments[position]
		if argument == argumentTerminator {
			return append(normalized, arguments[position:]...)
		}
		if _, isSwitch := switches[argument]; isSwitch && position+1 < len(arguments) {
			following := arguments[position+1]
			if _, known := parseSwitchLiteral(following); known && strings.TrimSpace(following) != "" {
				normalized = append(normalized, argument+flagValueSeparator+following)
				position++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

// switchSpellings collects "--name" and "-x" for every switch of command and
// its subcommands.
func switchSpellings(command *cobra.Command) map[string]struct{} {
	spellings := map[string]struct{}{}
	record := func(flag *pflag.Flag) {
		if flag.Value.Type() != switchTypeName {
			return
		}
		spellings[longFlagPrefix+flag.Name] = struct{}{}
		if flag.Shorthand != "" {
			spellings[shortFlagPrefix+flag.Shorthand] = struct{}{}
		}
	}
	var visit func(current *cobra.Command)
	visit = func(current *cobra.Command) {
		current.PersistentFlags().VisitAll(record)
		current.Flags().VisitAll(record)
		for _, child := range current.Commands() {
			visit(child)
		}
	}
	if command != nil {
		visit(command)
	}
	return spellings
}
