package lifecycle

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/drex-labs/drex/internal/store"
)

var printer = message.NewPrinter(language.English)

func addMessage(rec store.Record) string {
	return printer.Sprintf("Add %s %s %s in %s.", rec.Name, rec.Type, rec.Version, rec.Prefix)
}

func updateMessage(current store.Record, newVersion string) string {
	return printer.Sprintf("Update %s %s from %s to %s in %s.",
		current.Name, current.Type, current.Version, newVersion, current.Prefix)
}

func moveMessage(current store.Record, newPrefix string) string {
	return printer.Sprintf("Move %s %s from %s to %s.",
		current.Name, current.Type, current.Prefix, newPrefix)
}

func removeMessage(current store.Record) string {
	return printer.Sprintf("Remove %s %s %s from %s.",
		current.Name, current.Type, current.Version, current.Prefix)
}

func emptyStoreMessage(file string) string {
	return printer.Sprintf("Remove empty %s store.", file)
}

// confirm prints the operation's closing line unless quiet is set.
func (c *Controller) confirm(quiet bool, operation, name, typ string) {
	if quiet {
		return
	}
	printer.Fprintf(c.out, "%s of '%s' %s successful.\n", operation, name, typ)
}
