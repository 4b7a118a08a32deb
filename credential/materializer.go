// Package credential resolves the org credential connection string and
// materializes it into a file the session CLI can read.
package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sfbridge/login-bridge/internal/errors"
)

// Materializer resolves credential material for one instance and writes it
// to per-request temp files. It is immutable and safe for concurrent use.
type Materializer struct {
	envCredential string // pre-provisioned credential, wins when non-empty
	dataFolder    string
}

func NewMaterializer(envCredential, dataFolder string) *Materializer {
	return &Materializer{
		envCredential: envCredential,
		dataFolder:    dataFolder,
	}
}

// Resolve returns the credential string for the named instance. A
// pre-provisioned environment credential takes precedence over the
// per-instance file on disk.
func (m *Materializer) Resolve(instanceName string) (string, error) {
	if m.envCredential != "" {
		return m.envCredential, nil
	}

	path := m.instanceFilePath(instanceName)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrCredentialNotFound, "no environment credential and no credential file at %s", path)
	}

	cred := strings.TrimSpace(string(data))
	if cred == "" {
		return "", errors.Wrapf(errors.ErrCredentialNotFound, "credential file %s is empty", path)
	}
	return cred, nil
}

// Materialize writes the resolved credential to a unique temp file and
// returns its path together with a cleanup func. The write is synced to
// storage before returning so the CLI never observes a partial file. Cleanup
// is safe to call on every exit path.
func (m *Materializer) Materialize(instanceName string) (string, func(), error) {
	cred, err := m.Resolve(instanceName)
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(m.dataFolder, 0o700); err != nil {
		return "", nil, errors.Wrapf(err, "create data folder %s", m.dataFolder)
	}

	// Per-request unique path: concurrent callbacks never share a file.
	path := filepath.Join(m.dataFolder, fmt.Sprintf("authurl-%s.tmp", uuid.New().String()))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", nil, errors.Wrapf(err, "create credential file %s", path)
	}

	if _, err := f.WriteString(cred); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, errors.Wrapf(err, "write credential file %s", path)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, errors.Wrapf(err, "sync credential file %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, errors.Wrapf(err, "close credential file %s", path)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Err(err).Str("path", path).Msg("Failed to remove credential file")
		}
	}
	return path, cleanup, nil
}

func (m *Materializer) instanceFilePath(instanceName string) string {
	return filepath.Join(m.dataFolder, instanceName+".authurl")
}
