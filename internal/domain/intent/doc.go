// Package intent dispatches translator intents onto the window kernel.
//
// Wire intents ({kind, payload}) are decoded into variants of the Intent sum
// type. Each recognised kind has a decoder that validates its required payload
// fields and a variant whose Apply performs the kernel calls:
//
//   - open_application{app_id}: open the app titled from the catalog
//   - search_virtual_file_system{query}: open file_explorer titled "Search: <query>"
//   - none, or any unknown kind: no kernel call, not an error
//
// A recognised kind with a missing, empty or non-string required field yields
// a *MalformedIntentError before any kernel call. New kinds are added with
// Dispatcher.Register and a new variant type.
package intent
