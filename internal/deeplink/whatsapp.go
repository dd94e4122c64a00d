// Package deeplink builds outbound links that open a messaging app with a
// pre-filled message.
package deeplink

import (
	"net/url"
	"strings"
)

const waBase = "https://wa.me/"

// WhatsApp returns https://wa.me/<digits>?text=<message>.
//
// The message is percent-encoded per RFC 3986: only unreserved characters
// (letters, digits, '-', '.', '_', '~') stay literal, so a space becomes %20,
// '!' becomes %21 and accented letters become their UTF-8 bytes.
func WhatsApp(phone, message string) string {
	var b strings.Builder
	b.WriteString(waBase)
	b.WriteString(Digits(phone))
	if message != "" {
		b.WriteString("?text=")
		b.WriteString(Encode(message))
	}
	return b.String()
}

// Encode percent-encodes s as a URL component.
func Encode(s string) string {
	// PathEscape leaves only unreserved bytes and a few sub-delims literal;
	// those sub-delims are not safe inside a query value, so finish them here.
	esc := url.PathEscape(s)
	return subDelims.Replace(esc)
}

var subDelims = strings.NewReplacer(
	"$", "%24",
	"&", "%26",
	"+", "%2B",
	",", "%2C",
	":", "%3A",
	";", "%3B",
	"=", "%3D",
	"@", "%40",
)

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tel returns a tel: href for a display phone like "(46) 98401-8404".
func Tel(phone string) string {
	return "tel:" + Digits(phone)
}

// Mailto returns a mailto: href.
func Mailto(addr string) string {
	return "mailto:" + strings.TrimSpace(addr)
}
