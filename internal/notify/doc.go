// Package notify publishes task lifecycle events to an external observer.
//
// A Notifier implements executor.Listener and turns every attempted node into
// a "task_started" and a "task_finished" event. At the end of a run it emits a
// single "run_finished" event carrying the summary. Events are delivered
// through an Emitter; the Socket.IO implementation connects once per run and
// is the only transport currently provided.
//
// Notification is best effort: a failed emit is logged and never affects the
// run.
package notify
