// Package ws serves the live desktop stream at /stream.
//
// On connect the client receives a "snapshot" of all windows, and another
// one after every kernel change. Clients may send:
//
//	{"type":"ping"}
//	{"type":"open","app_id":"study_planner","title":"optional"}
//	{"type":"focus","app_id":"study_planner"}
//	{"type":"close","app_id":"study_planner"}
//	{"type":"intent","intent":{"kind":"open_application","payload":{"app_id":"about_os"}}}
//	{"type":"command","text":"find my lecture notes"}
package ws
