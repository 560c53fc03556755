package adapter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

func TestConsoleReporter_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.Report(domain.Progress{Stage: domain.StageValidated})
	r.Report(domain.Progress{Stage: domain.StageLocalesResolved, Locales: []domain.Locale{"cs", "en"}})
	r.Report(domain.Progress{
		Stage:  domain.StageFilesListed,
		Locale: "cs",
		Files:  []domain.RemoteFile{{FileName: "messages.po"}, {FileName: "forms.po"}},
	})
	r.Report(domain.Progress{Stage: domain.StageTransferring, Locale: "cs", File: "messages.po"})
	r.Report(domain.Progress{
		Stage: domain.StageTransferred,
		Done:  1,
		Total: 4,
		Result: &domain.TransferResult{
			Operation: domain.OpDownload,
			Locale:    "cs",
			File:      "messages.po",
			Path:      "/srv/lang/messages.cs.po",
			Bytes:     10,
		},
	})
	r.Report(domain.Progress{
		Stage: domain.StageTransferred,
		Done:  2,
		Total: 4,
		Result: &domain.TransferResult{
			Operation: domain.OpDownload,
			Locale:    "cs",
			File:      "forms.po",
			Failure:   &domain.APIFailure{Status: 202, Message: "export is still being prepared"},
		},
	})
	r.Report(domain.Progress{
		Stage: domain.StageDone,
		Summary: &domain.Summary{
			Locales:     []domain.Locale{"cs", "en"},
			Files:       2,
			Transferred: 3,
			Skipped:     1,
			Bytes:       2048,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Locales: cs, en")
	assert.Contains(t, out, "Syncing 2 file(s) for cs")
	assert.Contains(t, out, "[1/4]")
	assert.Contains(t, out, "messages.po -> /srv/lang/messages.cs.po")
	assert.Contains(t, out, "forms.po (cs) skipped: export is still being prepared")
	assert.Contains(t, out, "Done: 2 locale(s), 2 file(s), 3 transferred, 1 skipped, 2.0 KiB")
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestConsoleReporter_SkipAndPlanned(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf)

	r.Report(domain.Progress{Stage: domain.StageSkipped, Message: "OneSky api key is not specified, skipped"})
	r.Report(domain.Progress{
		Stage: domain.StageTransferred,
		Done:  1,
		Total: 1,
		Result: &domain.TransferResult{
			Operation: domain.OpDownload,
			Path:      "/srv/lang/messages.cs.po",
			Planned:   true,
		},
	})
	r.Error(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "api key is not specified, skipped")
	assert.Contains(t, out, "would download /srv/lang/messages.cs.po")
	assert.Contains(t, out, "boom")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "1023 B", formatBytes(1023))
	assert.Equal(t, "1.5 KiB", formatBytes(1536))
	assert.Equal(t, "1.0 MiB", formatBytes(1<<20))
}
