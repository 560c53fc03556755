package service

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

// stubRemote implements domain.TranslationService with call counters
type stubRemote struct {
	languages    []domain.Language
	languagesErr error
	files        []domain.RemoteFile
	filesErr     error
	exportFunc   func(req domain.ExportRequest) (*domain.ExportResult, error)
	uploadFunc   func(req domain.UploadRequest) (*domain.UploadResult, error)

	languageCalls int
	fileCalls     int
	exports       []domain.ExportRequest
	uploads       []domain.UploadRequest
}

func (s *stubRemote) ListLanguages(ctx context.Context, projectID string) ([]domain.Language, error) {
	s.languageCalls++
	return s.languages, s.languagesErr
}

func (s *stubRemote) ListFiles(ctx context.Context, projectID string) ([]domain.RemoteFile, error) {
	s.fileCalls++
	return s.files, s.filesErr
}

func (s *stubRemote) UploadFile(ctx context.Context, projectID string, req domain.UploadRequest) (*domain.UploadResult, error) {
	s.uploads = append(s.uploads, req)
	if s.uploadFunc != nil {
		return s.uploadFunc(req)
	}
	return &domain.UploadResult{ImportID: 1}, nil
}

func (s *stubRemote) ExportTranslation(ctx context.Context, projectID string, req domain.ExportRequest) (*domain.ExportResult, error) {
	s.exports = append(s.exports, req)
	if s.exportFunc != nil {
		return s.exportFunc(req)
	}
	content := fmt.Sprintf("# %s %s\n", req.Locale, req.SourceFileName)
	return &domain.ExportResult{Content: []byte(content)}, nil
}

func (s *stubRemote) totalCalls() int {
	return s.languageCalls + s.fileCalls + len(s.exports) + len(s.uploads)
}

// failingWriteFs fails every open-for-write of one path
type failingWriteFs struct {
	afero.Fs
	path string
}

func (f failingWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == f.path && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, os.ErrPermission
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// writeCountingFs counts completed catalogue writes
type writeCountingFs struct {
	afero.Fs
	writes map[string]int
}

func (f *writeCountingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err == nil && flag&os.O_TRUNC != 0 {
		f.writes[name]++
	}
	return file, err
}
