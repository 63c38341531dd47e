// Package types defines every cross‑package data structure used by the summarize CLI.
package types

import "sync"

const (
	FormatDefault  = "default"
	FormatMarkdown = "markdown"
	FormatXML      = "cxml"

	CommandConcatenate = "concatenate"
	CommandCount       = "count"
	CommandSummarize   = "summarize"
)

// ValidatedPath is an input root that already passed existence checks.
type ValidatedPath struct {
	// Argument is the root exactly as supplied, used to build display paths.
	Argument     string
	AbsolutePath string
	IsDir        bool
}

// FileEntry is a file accepted by the walker. It is never mutated after creation.
type FileEntry struct {
	Path        string `json:"path" xml:"path"`
	DisplayPath string `json:"displayPath" xml:"displayPath"`
	SizeBytes   int64  `json:"sizeBytes" xml:"sizeBytes"`
}

// Document is one file handed to a concatenation renderer.
type Document struct {
	DisplayPath string `json:"path" xml:"source"`
	Content     string `json:"content" xml:"document_content"`
	LineCount   int    `json:"lineCount" xml:"-"`
}

// WarningKind classifies non-fatal issues reported during a run.
type WarningKind string

const (
	WarningUnreadableGitignore WarningKind = "unreadable_gitignore"
	WarningUnreadableDirectory WarningKind = "unreadable_directory"
	WarningPermissionDenied    WarningKind = "permission_denied"
	WarningSymlinkCycle        WarningKind = "symlink_cycle"
	WarningBrokenSymlink       WarningKind = "broken_symlink"
	WarningFileRead            WarningKind = "file_read"
	WarningDecode              WarningKind = "decode"
	WarningTokenize            WarningKind = "tokenize"
)

// Warning is a structured non-fatal issue.
type Warning struct {
	Path    string      `json:"path"`
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// WarningSink receives warnings. Implementations must be safe for concurrent use.
type WarningSink interface {
	Warn(warning Warning)
}

// WarningSinkFunc adapts a function to WarningSink.
type WarningSinkFunc func(Warning)

// Warn calls the underlying function.
func (sinkFunction WarningSinkFunc) Warn(warning Warning) {
	if sinkFunction != nil {
		sinkFunction(warning)
	}
}

// DiscardWarnings ignores every warning.
var DiscardWarnings WarningSink = WarningSinkFunc(func(Warning) {})

// WarningRecorder collects warnings in arrival order.
type WarningRecorder struct {
	mutex    sync.Mutex
	warnings []Warning
}

// Warn records the warning.
func (recorder *WarningRecorder) Warn(warning Warning) {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	recorder.warnings = append(recorder.warnings, warning)
}

// Warnings returns a copy of the recorded warnings.
func (recorder *WarningRecorder) Warnings() []Warning {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]Warning(nil), recorder.warnings...)
}

// Kinds returns the kinds of the recorded warnings in arrival order.
func (recorder *WarningRecorder) Kinds() []WarningKind {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	kinds := make([]WarningKind, 0, len(recorder.warnings))
	for _, warning := range recorder.warnings {
		kinds = append(kinds, warning.Kind)
	}
	return kinds
}
