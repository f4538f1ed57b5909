// Package discord runs the alliance tag bot on Discord as a go-sarah adapter.
//
// The Adapter connects through discordgo and reacts to three gateway events.
// On Ready it reads the guild roster and prepends alliance tags to member
// nicknames. On guild member updates it applies added or removed alliance
// roles. On message creation it answers trigger keywords with a fixed embed
// and then hands the message to go-sarah as sarah.Input so registered
// commands keep working.
//
// The nickname and reply logic lives in the alliance package; this package
// converts discordgo payloads into alliance values and performs the REST calls.
package discord
