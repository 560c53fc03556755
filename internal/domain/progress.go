package domain

// Stage marks where a sync run is in its lifecycle
type Stage int

const (
	StageValidated Stage = iota
	StageSkipped
	StageLocalesResolved
	StageFilesListed
	StageTransferring
	StageTransferred
	StageNotice
	StageDone
)

// Progress is emitted by the sync service as the run advances.
// Done/Total count transfers across all locales.
type Progress struct {
	Stage   Stage
	Locale  Locale
	File    string
	Done    int
	Total   int
	Locales []Locale
	Files   []RemoteFile
	Result  *TransferResult
	Message string
	Summary *Summary
}

// ProgressFunc receives progress events. Called synchronously from the
// sync loop, so implementations must not block for long.
type ProgressFunc func(Progress)
