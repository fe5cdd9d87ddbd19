// Package state keeps per-chat conversation sessions in memory.
//
// Every session carries its dialog state, a turn lock that serializes event
// handling for that chat, and a handle on the work currently in flight so a
// later event can abort it. Sessions of different chats never share locks.
package state
