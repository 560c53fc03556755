package domain

import (
	"strings"
	"time"
)

// Operation is a set of requested transfer directions
type Operation uint8

const (
	OpDownload Operation = 1 << iota
	OpUpload

	OpNone Operation = 0
)

// Has reports whether op contains every bit of other
func (op Operation) Has(other Operation) bool {
	return other != OpNone && op&other == other
}

// String returns "download", "upload", "download+upload" or "none"
func (op Operation) String() string {
	var parts []string
	if op.Has(OpDownload) {
		parts = append(parts, "download")
	}
	if op.Has(OpUpload) {
		parts = append(parts, "upload")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// LocaleAll selects every locale the remote project knows about
const LocaleAll = "all"

// LocaleSelector is either LocaleAll or a comma-separated list of locale codes
type LocaleSelector string

// IsAll reports whether the selector asks for all remote locales.
// An empty selector behaves like LocaleAll.
func (s LocaleSelector) IsAll() bool {
	return s == "" || s == LocaleAll
}

// Explicit splits the selector on commas. Order is preserved; entries are
// neither trimmed nor deduplicated.
func (s LocaleSelector) Explicit() []Locale {
	parts := strings.Split(string(s), ",")
	locales := make([]Locale, len(parts))
	for i, p := range parts {
		locales[i] = Locale(p)
	}
	return locales
}

// Locale is a language code, optionally region-qualified ("cs", "en-US")
type Locale string

// SyncConfig holds the settings of one sync invocation.
// It is built once from defaults, config file, environment and flags and
// is not modified after validation.
type SyncConfig struct {
	APIKey    string
	APISecret string
	ProjectID string

	// DirPattern is the target directory as given, possibly with %placeholders%
	DirPattern string
	// TargetDir is DirPattern after expansion; filled in by validation
	TargetDir string

	Locales    LocaleSelector
	Operations Operation

	Strict bool   // missing credentials fail the run instead of skipping it
	DryRun bool   // list planned transfers without exporting or writing
	Only   string // fuzzy filter on manifest file names
}

// Language is one entry of the project's language list
type Language struct {
	Locale      Locale
	Code        string // region-qualified code, e.g. "en-US"
	EnglishName string
	IsBase      bool
}

// RemoteFile is one entry of the project's file manifest
type RemoteFile struct {
	FileName    string
	StringCount int
	UploadedAt  time.Time
}

// ExportRequest identifies a translated catalogue to download
type ExportRequest struct {
	Locale         Locale
	SourceFileName string
	ExportFileName string
}

// ExportResult carries the exported bytes or an application-level failure
type ExportResult struct {
	Content []byte
	Failure *APIFailure
}

// UploadRequest describes a catalogue submission
type UploadRequest struct {
	FileName string
	Content  []byte
	Format   string
	Locale   Locale
}

// FormatGNUPO is the file format tag used for catalogue uploads
const FormatGNUPO = "GNU_PO"

// UploadResult carries the import acknowledgement or an application-level failure
type UploadResult struct {
	ImportID  int64
	CreatedAt time.Time
	Failure   *APIFailure
}

// TransferResult is the outcome of one file transfer
type TransferResult struct {
	Operation Operation
	Locale    Locale
	File      string
	Path      string // local path written (download) or read (upload)
	Bytes     int
	ImportID  int64
	Planned   bool        // dry run; nothing was transferred
	Failure   *APIFailure // per-file warning; the run continues
	Err       error       // fatal; the run aborts
}

// OK reports whether the transfer completed without failure
func (r TransferResult) OK() bool {
	return r.Failure == nil && r.Err == nil
}

// Summary aggregates the outcome of a run
type Summary struct {
	Locales     []Locale
	Files       int
	Transferred int
	Skipped     int
	Bytes       int64
}
