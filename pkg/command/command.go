// Package command turns operator chat text into target store operations
package command

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies an operator command
type Kind int

const (
	KindUnknown Kind = iota
	KindAdd
	KindRemove
	KindList
	KindCurrent
	KindHelp
)

// commandRegexp matches "/name", "/name@bot" and an optional first argument
var commandRegexp = regexp.MustCompile(`^/(?P<name>[A-Za-z]+)(?:@\w+)?(?:\s+(?P<arg>\S+))?`)

var commandNames = map[string]Kind{
	"add":         KindAdd,
	"remove":      KindRemove,
	"listtargets": KindList,
	"current":     KindCurrent,
	"help":        KindHelp,
}

// Command is one parsed line of operator text
type Command struct {
	Kind Kind
	Raw  string

	// Set for add and remove only
	Price      float64
	MissingArg bool
	InvalidArg bool
}

// Parse maps one line of text to a Command. It never fails: anything not
// understood becomes KindUnknown, bad arguments are flagged on the command.
func Parse(text string) Command {
	raw := strings.TrimSpace(text)
	command := Command{Kind: KindUnknown, Raw: raw}

	match := commandRegexp.FindStringSubmatch(raw)
	if len(match) == 0 {
		return command
	}

	params := extractCommandParams(commandRegexp, match)
	kind, ok := commandNames[params["name"]]
	if !ok {
		return command
	}

	switch kind {
	case KindAdd, KindRemove:
		command.Kind = kind
		if params["arg"] == "" {
			command.MissingArg = true
			return command
		}

		price, ok := parsePrice(params["arg"])
		if !ok {
			command.InvalidArg = true
			return command
		}
		command.Price = price
	default:
		// argument-less commands must match exactly
		if params["arg"] != "" || raw != match[0] {
			return command
		}
		command.Kind = kind
	}

	return command
}

func parsePrice(arg string) (float64, bool) {
	price, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}

// extractCommandParams maps named groups from a regex match
func extractCommandParams(regex *regexp.Regexp, match []string) map[string]string {
	command := make(map[string]string)
	for i, name := range regex.SubexpNames() {
		if i != 0 && name != "" {
			command[name] = match[i]
		}
	}
	return command
}

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindRemove:
		return "remove"
	case KindList:
		return "listtargets"
	case KindCurrent:
		return "current"
	case KindHelp:
		return "help"
	default:
		return "unknown"
	}
}
