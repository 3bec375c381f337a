// ABOUTME: Chat command parsing for the league bot
// ABOUTME: Splits prefixed messages into a command and its arguments
package bot

import (
	"fmt"
	"strings"
)

const prefix = "league"

type command int

const (
	cmdNone command = iota
	cmdHelp
	cmdRegister
	cmdInvite
	cmdAccept
	cmdDecline
	cmdInvites
)

type parsed struct {
	cmd     command
	args    []string
	errText string
}

// parse splits a message into a command and arguments. Messages without the
// bot prefix yield cmdNone so callers can ignore them silently.
func parse(content string) parsed {
	if !strings.HasPrefix(content, prefix) {
		return parsed{cmd: cmdNone}
	}

	words := strings.Fields(content[len(prefix):])
	if len(words) == 0 {
		return parsed{errText: "no command provided, try `league help`"}
	}

	name := words[0]
	args := words[1:]

	switch name {
	case "help":
		return parsed{cmd: cmdHelp}
	case "register":
		// league register <display_name>
		if len(args) == 0 {
			return parsed{errText: "usage: league register <display_name>"}
		}
		return parsed{cmd: cmdRegister, args: []string{strings.Join(args, " ")}}
	case "invite":
		// league invite <player> [role]
		if len(args) == 0 {
			return parsed{errText: "usage: league invite <player> [role]"}
		}
		return parsed{cmd: cmdInvite, args: args}
	case "accept":
		// league accept <invite_id>
		if len(args) != 1 {
			return parsed{errText: "usage: league accept <invite_id>"}
		}
		return parsed{cmd: cmdAccept, args: args}
	case "decline":
		// league decline
		return parsed{cmd: cmdDecline}
	case "invites":
		// league invites
		return parsed{cmd: cmdInvites}
	default:
		return parsed{errText: fmt.Sprintf("command `%s` not recognised, try `league help`", name)}
	}
}

// userID strips Discord mention markup, so both `league invite @name` and a
// raw user id address the same player.
func userID(arg string) string {
	s := strings.TrimPrefix(arg, "<@")
	s = strings.TrimPrefix(s, "!")
	return strings.TrimSuffix(s, ">")
}
