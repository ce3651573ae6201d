package botapp

const (
	msgStart = "Бот активен. Напиши /help для списка команд."

	msgHelp = "Основные команды:\n" +
		"/help — показать эту справку\n" +
		"!трейд — показать все трейды\n" +
		"!лф — показать все лф\n" +
		"!очистить трейд — очистить свой трейд\n" +
		"!очистить лф — очистить свой лф\n" +
		"+трейд [тип] [название] — добавить в трейд\n" +
		"+lf [тип] [название] — добавить в лф\n" +
		"Пример сета:\n" +
		"+трейд сет 77 rings set: Top, Mid\n" +
		"+lf сет 77 rings set: Mid, Low"

	msgTradeAdded   = "Добавлено в трейд."
	msgLookAdded    = "Добавлено в лф."
	msgTradeEmpty   = "Трейд пуст."
	msgLookEmpty    = "Лф пуст."
	msgTradeCleared = "Трейд очищен."
	msgLookCleared  = "Лф очищен."
	msgTradeHeader  = "Трейд:"
	msgLookHeader   = "Лф:"

	msgAdminGranted = "Теперь ты админ. Тебе доступны админ-команды."

	msgScamDomain  = "Сообщение удалено: подозрительная ссылка."
	msgScamPattern = "Сообщение удалено: подозрительный текст."
)
