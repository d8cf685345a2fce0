package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName       = "bool"
	booleanFlagTrueLiteral    = "true"
	booleanFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
)

var booleanFlagLiterals = map[string]bool{
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

// literalBooleanValue is a pflag.Value accepting yes/no/on/off in addition to true/false.
type literalBooleanValue struct {
	target   *bool
	flagName string
}

func (value *literalBooleanValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, known := booleanFlagLiterals[normalized]
	if !known {
		return fmt.Errorf("invalid boolean value %q for --%s; accepted values: %s", input, value.flagName, booleanFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *literalBooleanValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *literalBooleanValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds a boolean flag that may be given bare, with =value, or followed by a literal.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&literalBooleanValue{target: target, flagName: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = booleanFlagTrueLiteral
}

// normalizeBooleanFlagArguments rewrites "--flag literal" into "--flag=literal" for boolean flags,
// since pflag never consumes a separate value for flags with NoOptDefVal.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName := strings.TrimPrefix(currentArgument, "--")
		_, isBooleanFlag := booleanFlags[flagName]
		if strings.HasPrefix(currentArgument, "--") && isBooleanFlag && index+1 < len(arguments) {
			literal := strings.ToLower(strings.TrimSpace(arguments[index+1]))
			if _, valid := booleanFlagLiterals[literal]; valid {
				normalized = append(normalized, "--"+flagName+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if flag.Value.Type() == booleanFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
