package botapp

import (
	"strings"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/domain/catalog"
	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/infra/telegram"
)

type commandKind int

const (
	cmdNone commandKind = iota
	cmdStart
	cmdHelp
	cmdAddTrade
	cmdAddLook
	cmdShowTrade
	cmdShowLook
	cmdClearTrade
	cmdClearLook
	cmdCatalog
	cmdAdminCode
)

const (
	tradePrefix = "+трейд"
	lookPrefix  = "+lf"
)

// command is the parsed, closed-variant form of an inbound message. The
// parser is pure text mapping; privilege and validation checks happen in the
// handlers.
type command struct {
	kind  commandKind
	lines []string
	code  string
}

func parseCommand(upd telegram.MessageUpdate) command {
	if upd.IsCommand {
		switch strings.ToLower(upd.Command) {
		case "start":
			return command{kind: cmdStart}
		case "help":
			return command{kind: cmdHelp}
		default:
			return command{kind: cmdNone}
		}
	}

	text := upd.Text

	if strings.HasPrefix(text, tradePrefix) {
		return command{kind: cmdAddTrade, lines: listingLines(text, tradePrefix)}
	}
	if strings.HasPrefix(text, lookPrefix) {
		return command{kind: cmdAddLook, lines: listingLines(text, lookPrefix)}
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "!трейд":
		return command{kind: cmdShowTrade}
	case "!лф":
		return command{kind: cmdShowLook}
	case "!очистить трейд":
		return command{kind: cmdClearTrade}
	case "!очистить лф":
		return command{kind: cmdClearLook}
	}

	if catalog.IsQueryPhrase(text) {
		return command{kind: cmdCatalog}
	}

	if code := strings.TrimSpace(text); strings.HasPrefix(code, "#") && !strings.ContainsAny(code, " \n") {
		return command{kind: cmdAdminCode, code: code}
	}

	return command{kind: cmdNone}
}

// listingLines extracts item lines from a submission: on a multi-line
// message the first line is the command header and every following line is
// an item; on a single line everything after the prefix is one item.
func listingLines(text, prefix string) []string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.Split(text[idx+1:], "\n")
	}
	return []string{strings.TrimPrefix(text, prefix)}
}
