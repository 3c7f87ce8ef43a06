// Package translate formats user-visible messages for the local language.
package translate

import (
	"log"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DEFAULT_LANGUAGE is used when the system reports no locale.
const DEFAULT_LANGUAGE = "en-US"

var printer atomic.Pointer[message.Printer]
var selected atomic.Value

func init() {
	SetLanguage()
}

// SetLanguage selects the message language from a preference ordered list
// of BCP 47 tags. An empty list selects the system locales.
func SetLanguage(languages ...string) {
	if len(languages) == 0 {
		locales, err := locale.GetLocales()
		if err != nil {
			log.Printf("intcode: locale: %v", err)
		}
		languages = locales
	}

	if len(languages) == 0 {
		languages = []string{DEFAULT_LANGUAGE}
	}

	tag := message.MatchLanguage(languages...)
	selected.Store(tag)
	printer.Store(message.NewPrinter(tag))
}

// Language returns the selected message language.
func Language() language.Tag {
	return selected.Load().(language.Tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Load().Sprintf(key, args...)
}
