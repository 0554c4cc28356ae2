// Package watcher delivers vault changes from the filesystem to a
// driving.ChangeHandler using fsnotify.
//
// Create events become OnCreated, Write events OnModified, and Remove or
// Rename events (which fsnotify reports for the old name) OnDeleted. The
// new name of a renamed file arrives as its own Create event, so a rename
// is handled as a delete of the old path and a create of the new one.
// Chmod events, hidden files and files without a document extension are
// ignored. Directories created while watching are watched too.
package watcher
