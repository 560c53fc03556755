package main

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/onesky-sync/internal/adapter"
	"github.com/mmcdole/onesky-sync/internal/domain"
	"github.com/mmcdole/onesky-sync/internal/service"
)

type countingSecrets struct {
	calls int
	value string
}

func (c *countingSecrets) GetSecretValue(
	_ context.Context,
	_ *secretsmanager.GetSecretValueInput,
	_ ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	c.calls++
	return &secretsmanager.GetSecretValueOutput{SecretString: &c.value}, nil
}

// run executes the root command against a config file holding body, with
// the credential env cleared and then set from env, so the developer's own
// configuration never leaks into the test
func run(t *testing.T, body string, env map[string]string, secrets *countingSecrets, args ...string) (string, error) {
	t.Helper()
	for _, name := range []string{"ONESKY_API_KEY", "ONESKY_API_SECRET", "ONESKY_API_SECRET_ID", "ONESKY_PROJECT_ID"} {
		t.Setenv(name, env[name])
	}
	if secrets == nil {
		secrets = &countingSecrets{}
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  progress: never\n"+body), 0o644))

	factory := func(_ context.Context, logger *slog.Logger) (*adapter.SecretResolver, error) {
		return adapter.NewSecretResolverWithAPI(secrets, logger), nil
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(factory)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", cfgPath))

	err := cmd.Execute()
	return out.String(), err
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return run(t, "", nil, nil, args...)
}

func TestSync_UploadUnsupported(t *testing.T) {
	_, err := execute(t, "sync", "--upload")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	assert.Equal(t, 1, service.ExitCode(err))
}

func TestSync_NoOperation(t *testing.T) {
	_, err := execute(t, "sync")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "specify exactly one")
}

func TestSync_MissingCredentialsSkips(t *testing.T) {
	out, err := execute(t, "sync", "--download")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSkipped)
	assert.Equal(t, 0, service.ExitCode(err))
	assert.Contains(t, out, "is not specified, skipped")
}

func TestSync_MissingCredentialsStrict(t *testing.T) {
	_, err := execute(t, "sync", "-d", "--strict")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSkipped)
	assert.Contains(t, err.Error(), "please specify OneSky")
	assert.Equal(t, 1, service.ExitCode(err))
}

func TestSync_RejectsArgs(t *testing.T) {
	_, err := execute(t, "sync", "extra")
	assert.Error(t, err)
}

func TestSyncFlags_Operations(t *testing.T) {
	assert.Equal(t, domain.OpNone, (&syncFlags{}).operations())
	assert.Equal(t, domain.OpDownload, (&syncFlags{download: true}).operations())
	assert.Equal(t, domain.OpDownload|domain.OpUpload, (&syncFlags{download: true, upload: true}).operations())
}

func TestUseProgressView(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, useProgressView(adapter.ProgressNever, &buf))
	assert.True(t, useProgressView(adapter.ProgressAlways, &buf))
	assert.False(t, useProgressView(adapter.ProgressAuto, &buf))
}

func TestSync_UploadDoesNotFetchSecret(t *testing.T) {
	secrets := &countingSecrets{value: "fetched"}
	env := map[string]string{"ONESKY_API_SECRET_ID": "onesky/secret", "ONESKY_API_KEY": "key", "ONESKY_PROJECT_ID": "42"}

	_, err := run(t, "", env, secrets, "sync", "--upload")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	assert.Zero(t, secrets.calls)
}

func TestSync_MissingAPIKeySkipsWithoutFetchingSecret(t *testing.T) {
	secrets := &countingSecrets{value: "fetched"}
	env := map[string]string{"ONESKY_API_SECRET_ID": "onesky/secret", "ONESKY_PROJECT_ID": "42"}

	out, err := run(t, "", env, secrets, "sync", "--download")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSkipped)
	assert.Equal(t, 0, service.ExitCode(err))
	assert.Contains(t, out, "apiKey is not specified, skipped")
	assert.Zero(t, secrets.calls)
}

func TestSync_FetchedSecretSignsRequests(t *testing.T) {
	var signed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sum := md5.Sum([]byte(q.Get("timestamp") + "fetched"))
		signed = q.Get("dev_hash") == hex.EncodeToString(sum[:])
		fmt.Fprint(w, `{"meta":{"status":200,"page_count":1},"data":[]}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	body := fmt.Sprintf("onesky:\n  base_url: %s\nsync:\n  dir: %s\n  locale: cs\n", srv.URL, dir)
	secrets := &countingSecrets{value: "fetched"}
	env := map[string]string{"ONESKY_API_SECRET_ID": "onesky/secret", "ONESKY_API_KEY": "key", "ONESKY_PROJECT_ID": "42"}

	out, err := run(t, body, env, secrets, "sync", "-d")
	require.NoError(t, err)
	assert.Equal(t, 1, secrets.calls)
	assert.True(t, signed)
	assert.Contains(t, out, "0 transferred")
}
