package rules

import "regexp"

// ScamKeywords are matched as case-insensitive substrings.
var ScamKeywords = []string{
	"заработок", "инвестиции", "быстрый доход",
	"пассивный доход", "без вложений", "прямо сейчас", "гарантированно",
	"доход от", "удаленная работа", "удалённая работа", "ставки", "1xbet",
	"казино", "бинанс", "crypto", "бинарные опционы", "места ограничены",
	"высокая оплата", "высокой оплатой", "занятость",
}

// ScamDomains are URL fragments matched as case-insensitive substrings.
var ScamDomains = []string{
	"t.me/", "bit.ly/", "binance", "1xbet", "rich-", "profit", "earn",
	"drop", "crypto", "invest", "fastmoney",
}

var ScamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)зараб.*\d+\s*(руб|₽|доллар|\$)`),
	regexp.MustCompile(`(?i)(инвест|вложи).*гарант`),
	regexp.MustCompile(`(?i)(https?://)?(www\.)?(t\.me|bit\.ly|tinyurl|taplink)\.com/[^\s]+`),
}
