package artifact

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	apperrors "apartment-estimator/internal/common/errors"
)

// Store saves and loads artifacts. Load failures are ARTIFACT_LOAD_FAILED.
type Store interface {
	Save(ctx context.Context, a *Artifacts) error
	Load(ctx context.Context) (*Artifacts, error)
	Name() string
}

// FileStore keeps the bundle and the city table as two JSON files.
type FileStore struct {
	ModelPath     string
	CityTablePath string
}

func NewFileStore(modelPath, cityTablePath string) *FileStore {
	return &FileStore{ModelPath: modelPath, CityTablePath: cityTablePath}
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Save(_ context.Context, a *Artifacts) error {
	bundleData, tableData, err := encode(a)
	if err != nil {
		return err
	}
	if err := writeFile(s.ModelPath, bundleData); err != nil {
		return err
	}
	return writeFile(s.CityTablePath, tableData)
}

// writeFile replaces path through a rename so readers never see a partial file.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func (s *FileStore) Load(_ context.Context) (*Artifacts, error) {
	bundleData, err := os.ReadFile(s.ModelPath)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(s.ModelPath, err)
	}
	tableData, err := os.ReadFile(s.CityTablePath)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(s.CityTablePath, err)
	}
	a, err := decode(bundleData, tableData)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(s.ModelPath, err)
	}
	return a, nil
}

// RedisStore publishes artifacts under <prefix>:bundle and <prefix>:city_table.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) BundleKey() string    { return s.prefix + ":bundle" }
func (s *RedisStore) CityTableKey() string { return s.prefix + ":city_table" }

// Save writes both keys in one MULTI so a reader never pairs a new bundle
// with an old table.
func (s *RedisStore) Save(ctx context.Context, a *Artifacts) error {
	bundleData, tableData, err := encode(a)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.BundleKey(), bundleData, 0)
		p.Set(ctx, s.CityTableKey(), tableData, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish artifacts: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context) (*Artifacts, error) {
	values, err := s.client.MGet(ctx, s.BundleKey(), s.CityTableKey()).Result()
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(s.prefix, err)
	}
	raw := make([][]byte, len(values))
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			return nil, apperrors.NewArtifactLoadFailedError(s.prefix, stderrors.New("artifact key not found"))
		}
		raw[i] = []byte(str)
	}
	a, err := decode(raw[0], raw[1])
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(s.prefix, err)
	}
	return a, nil
}
