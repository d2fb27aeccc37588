// Package link defines the transport backend interfaces for uplink and
// the pieces shared by the variants: the net.Conn adapter that exposes
// availability-style read primitives and the lifecycle manager driven
// by the application's setup/tick cycle.
//
// Key concepts:
//   - Backend: one physical link variant (wired or wireless); brings the
//     link up once and re-establishes it when it drops
//   - Conn: one connection with Available/ReadByte/Connected primitives
//   - Manager: owns the chosen Backend and maps it onto the caller's
//     setup-once, tick-forever model
package link
