package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

const catalogueFileMode = 0o644

// SyncService moves catalogues between the translation service and a
// local directory. Transfers run one at a time in manifest order.
type SyncService struct {
	remote   domain.TranslationService
	fs       afero.Fs
	expander domain.PathExpander
	logger   *slog.Logger
	progress domain.ProgressFunc
}

// NewSyncService creates a new sync service
func NewSyncService(
	remote domain.TranslationService,
	fs afero.Fs,
	expander domain.PathExpander,
	logger *slog.Logger,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &SyncService{
		remote:   remote,
		fs:       fs,
		expander: expander,
		logger:   logger,
	}
}

// OnProgress registers a callback for progress events
func (s *SyncService) OnProgress(fn domain.ProgressFunc) {
	s.progress = fn
}

func (s *SyncService) emit(p domain.Progress) {
	if s.progress != nil {
		s.progress(p)
	}
}

// Run validates cfg and performs the requested transfer for every locale
// and manifest file. A warning-level validation result returns
// domain.ErrSkipped without contacting the service. Transport and
// filesystem errors abort the run; failure payloads skip the file.
func (s *SyncService) Run(ctx context.Context, cfg domain.SyncConfig) (*domain.Summary, error) {
	resolved, err := Validate(cfg, s.fs, s.expander)
	if err != nil {
		if domain.IsWarning(err) {
			s.logger.Info("sync skipped", "reason", err.Error())
			s.emit(domain.Progress{Stage: domain.StageSkipped, Message: err.Error()})
			return nil, fmt.Errorf("%w: %w", domain.ErrSkipped, err)
		}
		s.logger.Error("invalid configuration", "error", err)
		return nil, err
	}
	cfg = resolved

	s.logger.Info("configuration validated",
		"project", cfg.ProjectID,
		"dir", cfg.TargetDir,
		"operation", cfg.Operations.String(),
		"dry_run", cfg.DryRun,
	)
	s.emit(domain.Progress{Stage: domain.StageValidated})

	locales, err := s.ResolveLocales(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve locales: %w", err)
	}
	s.emit(domain.Progress{Stage: domain.StageLocalesResolved, Locales: locales})

	// The manifest does not depend on the locale, so one listing serves
	// every locale of the run.
	files, err := s.remote.ListFiles(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}
	if cfg.Only != "" {
		var suggestions []string
		files, suggestions = FilterManifest(files, cfg.Only)
		if len(files) == 0 {
			msg := fmt.Sprintf("no manifest file matches %q", cfg.Only)
			if len(suggestions) > 0 {
				msg += fmt.Sprintf(", closest: %s", strings.Join(suggestions, ", "))
			}
			s.logger.Warn("empty manifest filter result", "pattern", cfg.Only, "suggestions", suggestions)
			s.emit(domain.Progress{Stage: domain.StageNotice, Message: msg})
		}
	}

	summary := &domain.Summary{Locales: locales, Files: len(files)}
	total := len(locales) * len(files)
	done := 0

	for _, locale := range locales {
		s.emit(domain.Progress{Stage: domain.StageFilesListed, Locale: locale, Files: files, Done: done, Total: total})

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return summary, fmt.Errorf("%w: sync interrupted: %w", domain.ErrRemoteTransport, err)
			}

			s.emit(domain.Progress{
				Stage:  domain.StageTransferring,
				Locale: locale,
				File:   file.FileName,
				Done:   done,
				Total:  total,
			})

			res := s.transfer(ctx, cfg, locale, file)
			if res.Err != nil {
				s.logger.Error("transfer failed", "locale", locale, "file", file.FileName, "error", res.Err)
				return summary, res.Err
			}

			done++
			switch {
			case res.Failure != nil:
				summary.Skipped++
				s.logger.Warn("transfer skipped",
					"locale", locale,
					"file", file.FileName,
					"status", res.Failure.Status,
					"message", res.Failure.Message,
				)
			case !res.Planned:
				summary.Transferred++
				summary.Bytes += int64(res.Bytes)
			}

			s.emit(domain.Progress{
				Stage:  domain.StageTransferred,
				Locale: locale,
				File:   file.FileName,
				Done:   done,
				Total:  total,
				Result: &res,
			})
		}
	}

	s.logger.Info("sync finished",
		"locales", len(locales),
		"files", summary.Files,
		"transferred", summary.Transferred,
		"skipped", summary.Skipped,
		"bytes", summary.Bytes,
	)
	s.emit(domain.Progress{Stage: domain.StageDone, Done: done, Total: total, Summary: summary})
	return summary, nil
}

// ResolveLocales returns the working locale set: every language of the
// project for the "all" selector, otherwise the explicit list as given
func (s *SyncService) ResolveLocales(ctx context.Context, cfg domain.SyncConfig) ([]domain.Locale, error) {
	if !cfg.Locales.IsAll() {
		return cfg.Locales.Explicit(), nil
	}

	langs, err := s.remote.ListLanguages(ctx, cfg.ProjectID)
	if err != nil {
		return nil, err
	}

	locales := make([]domain.Locale, 0, len(langs))
	for _, l := range langs {
		locales = append(locales, l.Locale)
	}
	s.logger.Debug("resolved project locales", "locales", locales)
	return locales, nil
}

// transfer dispatches a single file to the download or upload path
func (s *SyncService) transfer(ctx context.Context, cfg domain.SyncConfig, locale domain.Locale, file domain.RemoteFile) domain.TransferResult {
	if cfg.Operations.Has(domain.OpDownload) {
		return s.download(ctx, cfg, locale, file)
	}
	return s.upload(ctx, cfg, locale, file)
}

// download exports one catalogue and overwrites its local counterpart
func (s *SyncService) download(ctx context.Context, cfg domain.SyncConfig, locale domain.Locale, file domain.RemoteFile) domain.TransferResult {
	res := domain.TransferResult{
		Operation: domain.OpDownload,
		Locale:    locale,
		File:      file.FileName,
	}

	path, err := DownloadPath(cfg.TargetDir, file.FileName, locale)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = path

	if cfg.DryRun {
		res.Planned = true
		s.logger.Info("would download catalogue", "locale", locale, "file", file.FileName, "path", res.Path)
		return res
	}

	s.logger.Info("downloading catalogue", "locale", locale, "file", file.FileName)

	exported, err := s.remote.ExportTranslation(ctx, cfg.ProjectID, domain.ExportRequest{
		Locale:         locale,
		SourceFileName: file.FileName,
		ExportFileName: file.FileName,
	})
	if err != nil {
		res.Err = fmt.Errorf("failed to export %s for %s: %w", file.FileName, locale, err)
		return res
	}
	if exported.Failure != nil {
		res.Failure = exported.Failure
		return res
	}

	if err := afero.WriteFile(s.fs, res.Path, exported.Content, catalogueFileMode); err != nil {
		res.Err = fmt.Errorf("%w: write %s: %w", domain.ErrFilesystem, res.Path, err)
		return res
	}
	res.Bytes = len(exported.Content)
	return res
}

// upload submits the local catalogue named like the manifest entry
func (s *SyncService) upload(ctx context.Context, cfg domain.SyncConfig, locale domain.Locale, file domain.RemoteFile) domain.TransferResult {
	res := domain.TransferResult{
		Operation: domain.OpUpload,
		Locale:    locale,
		File:      file.FileName,
	}

	name, err := catalogueName(file.FileName)
	if err != nil {
		res.Err = err
		return res
	}
	res.Path = filepath.Join(cfg.TargetDir, name)

	content, err := afero.ReadFile(s.fs, res.Path)
	if err != nil {
		res.Err = fmt.Errorf("%w: read %s: %w", domain.ErrFilesystem, res.Path, err)
		return res
	}

	if cfg.DryRun {
		res.Planned = true
		s.logger.Info("would upload catalogue", "locale", locale, "file", file.FileName, "path", res.Path)
		return res
	}

	s.logger.Info("uploading catalogue", "locale", locale, "file", file.FileName)

	ack, err := s.remote.UploadFile(ctx, cfg.ProjectID, domain.UploadRequest{
		FileName: file.FileName,
		Content:  content,
		Format:   domain.FormatGNUPO,
		Locale:   locale,
	})
	if err != nil {
		res.Err = fmt.Errorf("failed to upload %s for %s: %w", file.FileName, locale, err)
		return res
	}
	if ack.Failure != nil {
		res.Failure = ack.Failure
		return res
	}

	res.Bytes = len(content)
	res.ImportID = ack.ImportID
	s.logger.Info("upload acknowledged", "locale", locale, "file", file.FileName, "import_id", ack.ImportID)
	return res
}

// DownloadPath returns {dir}/{base}.{locale}.{ext} for the last element of
// fileName, split at its last dot. A name without an extension becomes
// {dir}/{name}.{locale}. The result is always a direct child of dir; names
// and locales that cannot produce one are filesystem errors.
func DownloadPath(dir, fileName string, locale domain.Locale) (string, error) {
	name, err := catalogueName(fileName)
	if err != nil {
		return "", err
	}
	if locale == "" || strings.ContainsAny(string(locale), `/\`) {
		return "", fmt.Errorf("%w: locale %q cannot be part of a file name", domain.ErrFilesystem, locale)
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	path := filepath.Join(dir, base+"."+string(locale)+ext)
	if filepath.Dir(path) != filepath.Clean(dir) {
		return "", fmt.Errorf("%w: %s is outside %s", domain.ErrFilesystem, path, dir)
	}
	return path, nil
}

// catalogueName keeps only the last path element of a manifest file name
func catalogueName(fileName string) (string, error) {
	name := filepath.Base(fileName)
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%w: manifest file name %q has no usable base name", domain.ErrFilesystem, fileName)
	}
	return name, nil
}

// ExitCode maps the result of Run to a process exit status
func ExitCode(err error) int {
	if err == nil || errors.Is(err, domain.ErrSkipped) {
		return 0
	}
	return 1
}
