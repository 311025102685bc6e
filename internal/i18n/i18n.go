// Package i18n хранит каталог пользовательских строк и форматы дат
// для поддерживаемых локалей.
package i18n

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const DefaultLocale = "en"

var (
	supported = []language.Tag{
		language.English,
		language.BrazilianPortuguese,
		language.Russian,
	}
	matcher = language.NewMatcher(supported)

	dateLayouts = map[language.Tag]string{
		language.English:             "Jan 2, 2006",
		language.BrazilianPortuguese: "02/01/2006",
		language.Russian:             "02.01.2006",
	}

	cat = catalog.NewBuilder(catalog.Fallback(language.English))
)

// Locale форматирует строки и даты для одной локали.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
}

// New возвращает локаль, ближайшую к запрошенной. Пустая или неизвестная
// строка дает английскую локаль.
func New(locale string) *Locale {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Locale{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Tag возвращает выбранный языковой тег.
func (l *Locale) Tag() language.Tag {
	return l.tag
}

// Sprintf переводит ключ и подставляет аргументы.
// Числа передаются строками, чтобы принтер не добавлял разделители разрядов.
func (l *Locale) Sprintf(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Date форматирует календарную дату в принятом для локали виде.
func (l *Locale) Date(t time.Time) string {
	return t.Format(dateLayouts[l.tag])
}

// Clock форматирует время суток как HH:MM.
func (l *Locale) Clock(t time.Time) string {
	return t.Format("15:04")
}

func set(key, pt, ru string) {
	_ = cat.SetString(language.English, key, key)
	_ = cat.SetString(language.BrazilianPortuguese, key, pt)
	_ = cat.SetString(language.Russian, key, ru)
}

func init() {
	// периодичность
	set("once daily", "1x ao dia", "1 раз в день")
	set("twice daily", "2x ao dia", "2 раза в день")
	set("3x daily", "3x ao dia", "3 раза в день")
	set("4x daily", "4x ao dia", "4 раза в день")
	set("every %sh", "A cada %sh", "каждые %s ч")
	set("at %s", "Às %s", "в %s")
	set("%sx daily", "%sx ao dia", "%s раз в день")
	set("Interval (hours)", "Intervalo (em horas)", "Интервал (в часах)")
	set("Fixed times", "Horários fixos", "Фиксированное время")
	set("Unknown type", "Tipo desconhecido", "Неизвестный тип")

	// срок годности
	set("expired", "Vencido", "просрочено")
	set("expires today", "Vence hoje", "истекает сегодня")
	set("expires tomorrow", "Vence amanhã", "истекает завтра")
	set("expires in %s days", "Vence em %s dias", "истекает через %s дн.")

	// напоминания
	set("Time for your medication!", "💊 Hora do Remédio!", "Время принять лекарство!")
	set("Don't forget to take %s.", "Não se esqueça de tomar %s.", "Не забудьте принять %s.")
	set("Medication reminders", "Lembretes de Medicamentos", "Напоминания о лекарствах")

	// дозы
	set("Taken", "Tomado", "Принято")
	set("Pending", "Pendente", "Ожидает")
	set("Snoozed", "Adiado", "Отложено")
	set("Missed", "Perdido", "Пропущено")
	set("Overdue", "Atrasado", "Просрочено")
	set("Today at %s", "Hoje às %s", "Сегодня в %s")
	set("Tomorrow at %s", "Amanhã às %s", "Завтра в %s")
	set("Yesterday at %s", "Ontem às %s", "Вчера в %s")
	set("%s at %s", "%s às %s", "%s в %s")

	// количество
	set("Take %s unit", "Tomar %s unidade", "Принимать %s ед.")
	set("Take %s units", "Tomar %s unidades", "Принимать %s ед.")
	set("%s unit", "%s unidade", "%s ед.")
	set("%s units", "%s unidades", "%s ед.")
}
