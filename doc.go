// Package fswatch implements a long-lived Linux inotify-backed watcher
// that maintains a dynamic set of kernel watch handles over a directory
// tree, decodes and debounces raw kernel events, and dispatches refined
// FileChangeEvents to a user callback.
//
// # Linux notes
//
// The fs.inotify.max_user_watches sysctl variable specifies the upper
// limit for the number of watches per user, and fs.inotify.max_user_instances
// specifies the maximum number of inotify instances per user. Every Watcher
// created by New is one instance, and every directory reachable from an
// AddFilepath root is one watch.
//
//	sysctl fs.inotify.max_user_watches=124983
//	sysctl fs.inotify.max_user_instances=128
package fswatch
