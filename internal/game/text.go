package game

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys for player-facing text.
const (
	msgDrawCards     = "draw.cards"
	msgMaxCards      = "hand.max"
	msgSoftTitle     = "warn.soft.title"
	msgSoftBody      = "warn.soft.body"
	msgHardTitle     = "warn.hard.title"
	msgHardBody      = "warn.hard.body"
	msgWin           = "win"
	msgWinMoney      = "win.money"
	msgPutUnderDeck  = "deck.putUnder"
	msgAttack        = "attack"
	msgSelectBuff    = "select.buff"
	msgDestroyPrompt = "destroy.prompt"
)

func newPrinter() *message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	en := language.English
	set := func(key string, msg catalog.Message) {
		if err := b.Set(en, key, msg); err != nil {
			panic(err)
		}
	}
	set(msgDrawCards, plural.Selectf(1, "%d",
		"=1", "Draw 1 card",
		"other", "Draw %[1]d cards"))
	set(msgMaxCards, catalog.String("Hand reached maximum of %d cards"))
	set(msgSoftTitle, catalog.String("Maximum Card Number Reached"))
	set(msgSoftBody, catalog.String("After this turn, put all but %d cards at the bottom of your deck."))
	set(msgHardTitle, catalog.String("Hard Maximum Card Number Reached"))
	set(msgHardBody, catalog.String("You can't draw any more cards in this turn. After this turn, put all but %d cards at the bottom of your deck."))
	set(msgWin, catalog.String("You won!"))
	set(msgWinMoney, catalog.String("You won!\nYour overkill damage will be converted to %d$"))
	set(msgPutUnderDeck, plural.Selectf(1, "%d",
		"=1", "Put 1 card at the bottom of your deck",
		"other", "Put %[1]d cards at the bottom of your deck"))
	set(msgAttack, catalog.String("%s attacks for %d damage"))
	set(msgSelectBuff, catalog.String("Select a bullet to get +%d damage"))
	set(msgDestroyPrompt, catalog.String("Select a bullet to destroy"))
	return message.NewPrinter(en, message.Catalog(b))
}
