// Package announcement turns a train event into a multi-language
// announcement document.
//
// The Composer renders the canonical English sentence from one of five
// category templates, asks the translation collaborator for the local
// languages of the plan, and falls back to built-in sentences whenever a
// translation is unavailable. Composition never fails because of the
// network; only an incomplete event is rejected. SpeechTexts prepares the
// per-language text handed to the speech synthesizer, with train and
// platform numbers spelled out digit by digit.
package announcement
