package provider

import "golang.org/x/text/language"

// IsEnglish reports whether lang is a valid BCP 47 tag with English as its
// base language. The English-only sources skip every other source language.
func IsEnglish(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	return base.String() == "en"
}
