package lint

// Rule is one detection pattern. Rules are pure data evaluated top to
// bottom; adding a detection is a one-line change to a table.
type Rule struct {
	Pattern string `json:"pattern"` // matched as a substring of the added line
	Name    string `json:"name"`
	Message string `json:"message"`
}

// forbiddenRules match unconditionally as errors. Each entry is a known
// unsafe-concurrency escape hatch with no acceptable justification in
// application code.
var forbiddenRules = []Rule{
	{"@unchecked Sendable", "unchecked-sendable",
		"Remove @unchecked Sendable; make the type actually Sendable or isolate it in an actor"},
	{"unsafeBitCast", "unsafe-bit-cast",
		"unsafeBitCast breaks type and memory safety; use a checked conversion"},
	{"UnsafeMutablePointer", "unsafe-mutable-pointer",
		"Raw mutable pointers are not concurrency-safe; use a managed buffer or actor"},
	{"UnsafeMutableRawPointer", "unsafe-mutable-raw-pointer",
		"Raw mutable pointers are not concurrency-safe; use a managed buffer or actor"},
	{"OpaquePointer", "opaque-pointer",
		"OpaquePointer hides ownership; wrap the foreign handle in a safe type"},
	{"DispatchSemaphore(", "dispatch-semaphore",
		"Semaphores deadlock under structured concurrency; await the result instead"},
	{"Thread.sleep", "thread-sleep",
		"Thread.sleep blocks the cooperative pool; use Task.sleep"},
	{"usleep(", "usleep",
		"usleep blocks the cooperative pool; use Task.sleep"},
	{"withoutActuallyEscaping", "without-actually-escaping",
		"withoutActuallyEscaping subverts escape analysis; restructure the closure"},
}

// conditionalRules are errors unless the immediately preceding diff line is
// a comment carrying a justification keyword; a justified match is
// suppressed entirely.
var conditionalRules = []Rule{
	{"nonisolated(unsafe)", "nonisolated-unsafe",
		"nonisolated(unsafe) needs a justification comment on the preceding line"},
	{"@preconcurrency import", "preconcurrency-import",
		"@preconcurrency import hides sendability errors; justify it or migrate the dependency"},
	{"assumeIsolated", "assume-isolated",
		"assumeIsolated traps when the assumption is wrong; justify why the isolation holds"},
}

// warningRules match as non-fatal warnings: legal constructs that usually
// indicate pre-structured-concurrency patterns worth a second look.
var warningRules = []Rule{
	{"DispatchQueue.global(", "dispatch-queue-global",
		"Global queues bypass actor isolation; prefer a Task or actor"},
	{"DispatchQueue(label:", "dispatch-queue-label",
		"Private queues bypass actor isolation; prefer an actor"},
	{"NSLock(", "nslock",
		"Manual locking is error-prone under async code; prefer an actor"},
	{"objc_sync_enter", "objc-sync",
		"objc_sync_enter pairs are easy to break; prefer an actor"},
	{"@TaskLocal", "task-local",
		"Task-local state complicates reasoning about isolation; confirm it is needed"},
}

// ForbiddenRules returns the unconditional error rules.
func ForbiddenRules() []Rule { return forbiddenRules }

// ConditionalRules returns the rules suppressible by a justification comment.
func ConditionalRules() []Rule { return conditionalRules }

// WarningRules returns the non-fatal advisory rules.
func WarningRules() []Rule { return warningRules }
