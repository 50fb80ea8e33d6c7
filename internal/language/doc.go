// Package language holds the closed set of announcement languages, the
// station state to language mapping, and the LanguagePlan that decides
// which sections an announcement carries and in what order.
//
// Languages are identified by display name ("Marathi"); each one maps to an
// uppercase section tag ("MARATHI"), ISO codes, and a BCP-47 tag for the
// Indian regional variant used by the speech synthesizer.
package language
