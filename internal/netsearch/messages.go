package netsearch

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. English text doubles as the key.
const (
	msgURL         = "URL"
	msgSummary     = "Found %d matching lines in %d files."
	msgInterrupted = "Search interrupted."
)

var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	must(b.SetString(language.English, msgURL, "URL"))
	must(b.SetString(language.German, msgURL, "URL"))

	must(b.Set(language.English, msgSummary,
		catalog.Var("lines", plural.Selectf(1, "%d",
			"=1", "1 matching line",
			"other", "%[1]d matching lines",
		)),
		catalog.Var("files", plural.Selectf(2, "%d",
			"=1", "1 file",
			"other", "%[2]d files",
		)),
		catalog.String("Found ${lines} in ${files}."),
	))
	must(b.Set(language.German, msgSummary,
		catalog.Var("lines", plural.Selectf(1, "%d",
			"=1", "1 übereinstimmende Zeile",
			"other", "%[1]d übereinstimmende Zeilen",
		)),
		catalog.Var("files", plural.Selectf(2, "%d",
			"=1", "1 Datei",
			"other", "%[2]d Dateien",
		)),
		catalog.String("${lines} in ${files} gefunden."),
	))

	must(b.SetString(language.English, msgInterrupted, "Search interrupted."))
	must(b.SetString(language.German, msgInterrupted, "Suche unterbrochen."))

	return b
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// Summary returns the localized "Found N matching lines in M files." text.
func Summary(tag language.Tag, lines, files int) string {
	return printer(tag).Sprintf(msgSummary, lines, files)
}

// Interrupted returns the localized message shown for a canceled search.
func Interrupted(tag language.Tag) string {
	return printer(tag).Sprintf(msgInterrupted)
}

// ParseLocale parses a BCP 47 tag, falling back to English.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
