package service

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

const writeProbePattern = ".onesky-write-probe-"

// Validate checks cfg before any remote call and returns a copy with
// TargetDir resolved. Operation checks come first so an upload request is
// always reported as unsupported. Missing credentials are a warning unless
// cfg.Strict is set.
func Validate(cfg domain.SyncConfig, fs afero.Fs, expander domain.PathExpander) (domain.SyncConfig, error) {
	if err := checkOperations(cfg.Operations); err != nil {
		return cfg, err
	}
	if err := checkCredentials(cfg, credentialsOf(cfg)); err != nil {
		return cfg, err
	}

	dir, err := resolveTargetDir(cfg.DirPattern, fs, expander)
	if err != nil {
		return cfg, err
	}
	cfg.TargetDir = dir
	return cfg, nil
}

// CheckRequest runs the checks that need neither the api secret nor the
// filesystem: the operation flags, then apiKey and projectId. A nil result
// means fetching a missing secret cannot be pre-empted by another
// validation outcome.
func CheckRequest(cfg domain.SyncConfig) error {
	if err := checkOperations(cfg.Operations); err != nil {
		return err
	}
	var required []credential
	for _, c := range credentialsOf(cfg) {
		if c.name != "apiSecret" {
			required = append(required, c)
		}
	}
	return checkCredentials(cfg, required)
}

type credential struct {
	name  string
	value string
}

func credentialsOf(cfg domain.SyncConfig) []credential {
	return []credential{
		{"apiKey", cfg.APIKey},
		{"apiSecret", cfg.APISecret},
		{"projectId", cfg.ProjectID},
	}
}

func checkOperations(op domain.Operation) error {
	if op.Has(domain.OpUpload) {
		return &domain.ValidationError{
			Severity: domain.SeverityError,
			Reason:   "upload to OneSky is not implemented yet",
			Kind:     domain.ErrUnsupportedOperation,
		}
	}
	if !op.Has(domain.OpDownload) {
		return configError("specify exactly one from the following options: download, upload")
	}
	return nil
}

func checkCredentials(cfg domain.SyncConfig, credentials []credential) error {
	for _, c := range credentials {
		if c.value != "" {
			continue
		}
		if cfg.Strict {
			return configError(fmt.Sprintf("please specify OneSky %s", c.name))
		}
		return &domain.ValidationError{
			Severity: domain.SeverityWarning,
			Reason:   fmt.Sprintf("OneSky %s is not specified, skipped", c.name),
			Kind:     domain.ErrConfiguration,
		}
	}
	return nil
}

func configError(reason string) *domain.ValidationError {
	return &domain.ValidationError{
		Severity: domain.SeverityError,
		Reason:   reason,
		Kind:     domain.ErrConfiguration,
	}
}

// resolveTargetDir expands the pattern and checks that the result is an
// existing, writable directory
func resolveTargetDir(pattern string, fs afero.Fs, expander domain.PathExpander) (string, error) {
	unusable := configError(fmt.Sprintf("given --dir %q does not exist or is not writable", pattern))

	dir := pattern
	if expander != nil {
		expanded, err := expander.Expand(pattern)
		if err != nil {
			return "", configError(fmt.Sprintf("given --dir %q cannot be expanded: %v", pattern, err))
		}
		dir = expanded
	}
	if dir == "" {
		return "", unusable
	}

	info, err := fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", unusable
	}

	if err := probeWritable(fs, dir); err != nil {
		return "", unusable
	}
	return dir, nil
}

// probeWritable creates and removes a temporary file in dir
func probeWritable(fs afero.Fs, dir string) error {
	f, err := afero.TempFile(fs, dir, writeProbePattern)
	if err != nil {
		return err
	}
	name := f.Name()
	closeErr := f.Close()
	if err := fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return closeErr
}
