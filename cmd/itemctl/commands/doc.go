// Package commands defines the itemctl CLI, a thin client for the item
// registry HTTP API.
//
// Commands
//
//   - session   Open a development session for an identity
//   - create    Register a new item with a price
//   - get       Print one item by index
//   - list      Page through registered items
//   - pay       Pay the full price of an item
//   - deposit   Pay an item through its escrow ID
//   - deliver   Mark a paid item delivered (owner only)
//   - escrow    Print an escrow unit
//   - events    Print the lifecycle events of an item
//
// The session cookie lives in an in-memory jar, so it only survives for the
// duration of one invocation. Pass --identity to open a session before the
// command runs.
package commands
