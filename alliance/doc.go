// Package alliance keeps guild nicknames in line with alliance roles and
// answers trigger phrases.
//
// Nothing here talks to Discord directly. Callers build Member, RoleChangeEvent
// and InboundMessage values at their event boundary and hand in a
// NicknameEditor and an EmbedSender that perform the remote calls.
package alliance
