package diag

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Summary renders a pluralized one-line count, e.g. "2 errors, 1
// warning" or "no errors".
func Summary(b *Bag) string {
	errs := b.ErrorCount()
	warns := b.WarningCount()
	if errs == 0 && warns == 0 {
		return "no errors"
	}
	parts := ""
	if errs > 0 {
		parts += printer.Sprintf("%d %s", errs, pluralize("error", errs))
	}
	if warns > 0 {
		if parts != "" {
			parts += ", "
		}
		parts += printer.Sprintf("%d %s", warns, pluralize("warning", warns))
	}
	return parts
}

func pluralize(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
