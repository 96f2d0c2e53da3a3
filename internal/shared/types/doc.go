// Package types provides shared data structures for the Nexus desktop backend.
//
// Core Types:
//   - Window: One open application window (id, title, focus, stack order)
//   - WindowEvent: Post-mutation snapshot emitted by the window kernel
//   - Intent: Kind-tagged message produced by the command translator
//   - Node, TreeNode: Flat virtual file system rows and their projected tree
//
// Request Types:
//   - CommandRequest, CommandResponse: Free text in, message plus intent out
//   - OpenWindowRequest: Direct window management
//   - WSMessage: WebSocket communication
package types
