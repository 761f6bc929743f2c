package service

// messages are the default operation descriptions for a locale
type messages struct {
	withdraw     string
	topUp        string
	transferTo   string // amount, currency, masked counterparty
	transferFrom string // amount, currency, masked counterparty
}

var locales = map[string]messages{
	"uk": {
		withdraw:     "Зняття готівки або валюти",
		topUp:        "Поповнення картки",
		transferTo:   "Переказ %s %s на %s",
		transferFrom: "Переказ %s %s з %s",
	},
	"en": {
		withdraw:     "Cash or currency withdrawal",
		topUp:        "Card top-up",
		transferTo:   "Transfer %s %s to %s",
		transferFrom: "Transfer %s %s from %s",
	},
}

func messagesFor(locale string) messages {
	if m, ok := locales[locale]; ok {
		return m
	}
	return locales["uk"]
}
