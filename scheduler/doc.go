// Package scheduler runs the single periodic tick loop that lets buffering
// decorators flush on time. The loop is bound to a context and exits as
// soon as it is cancelled.
package scheduler
