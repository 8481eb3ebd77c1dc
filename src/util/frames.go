package util

import (
	"regexp"
	"strings"
)

// systemFramePatterns is the ordered set of fragments that mark a stack
// frame as system/runtime/framework code. The set is data, not logic: a
// new noisy frame source means one more entry here.
var systemFramePatterns = []string{
	`libsystem_`,
	`libdispatch`,
	`libobjc`,
	`Foundation`,
	`UIKit`,
	`SwiftUI`,
	`CoreFoundation`,
	`CoreData`,
	`_dispatch_`,
	`objc_msgSend`,
	`swift_task_`,
	`swift_job_`,
	`__CFRunLoop`,
	`_pthread_`,
	`start_wqthread`,
	`_NSCallStack`,
	`libswiftCore`,
	`libswift_Concurrency`,
	`libsystem_pthread`,
	`AttributeGraph`,
	`GraphicsServices`,
	`RunningBoardServices`,
	`/usr/lib/`,
	`/System/Library/`,
	`Xcode\.app/Contents/`,
}

var systemFrameRe = regexp.MustCompile(strings.Join(systemFramePatterns, "|"))

// IsSystemFrame reports whether a stack-trace line belongs to OS, runtime,
// or UI-framework code rather than application code.
func IsSystemFrame(frame string) bool {
	return systemFrameRe.MatchString(frame)
}
