// Package models defines the core domain models for the standby ledger.
//
// # Models
//
//   - StandbyEvent: one shift covered by or for the account owner
//   - Settlement: the pairing of two standby events that settle each other
//   - User: registered account owning standby events
//   - RosterDay: which platoon is on duty for the day and night shift of a date
//   - Session: the authenticated caller, passed explicitly to the core
//
// # Design Principles
//
// 1. **Owner scoping**: every standby event and settlement carries OwnerID and
// is only ever read or written on behalf of that owner
// 2. **Soft deletes**: records are never erased; DeletedAt marks removal
// 3. **Back-references**: standby events point at their settlement through
// SettlementGroupID; the settlement never embeds its members
// 4. **Avoid circular references**: use ID strings instead of pointers for relationships
package models
