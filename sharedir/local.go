package sharedir

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jumboframes/armorigo/log"
)

// LocalProvider serves a directory tree of the local filesystem.
type LocalProvider struct {
	name string
	log  log.Logger

	root    string
	rootMtx sync.RWMutex
}

type LocalProviderOption func(*LocalProvider) error

func OptionLocalProviderLogger(log log.Logger) LocalProviderOption {
	return func(lp *LocalProvider) error {
		lp.log = log
		return nil
	}
}

func NewLocalProvider(name string, opts ...LocalProviderOption) (*LocalProvider, error) {
	lp := &LocalProvider{
		name: name,
	}
	for _, opt := range opts {
		err := opt(lp)
		if err != nil {
			return nil, err
		}
	}
	if lp.log == nil {
		lp.log = log.DefaultLog
	}
	return lp, nil
}

func (lp *LocalProvider) Name() string {
	return lp.name
}

// Add binds the provider to a local directory. It fails synchronously
// when root is missing or not a directory.
func (lp *LocalProvider) Add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return ErrIllegalPath
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	lp.rootMtx.Lock()
	lp.root = abs
	lp.rootMtx.Unlock()
	lp.log.Debugf("share added, name: %s, root: %s", lp.name, abs)
	return nil
}

func (lp *LocalProvider) Info(ctx context.Context, sharePath string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	localPath, err := lp.resolve(sharePath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDoesNotExist
		}
		return nil, err
	}
	return &Entry{
		Path:    sharePath,
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (lp *LocalProvider) Read(ctx context.Context, sharePath string, offset uint64, length uint32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	localPath, err := lp.resolve(sharePath)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDoesNotExist
		}
		return nil, err
	}
	defer file.Close()

	data := make([]byte, length)
	n, err := file.ReadAt(data, int64(offset))
	if err != nil && err != io.EOF {
		return nil, err
	}
	return data[:n], nil
}

func (lp *LocalProvider) List(ctx context.Context, sharePath string) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	localPath, err := lp.resolve(sharePath)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrDoesNotExist
		}
		return nil, err
	}
	entries := make([]*Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		info, err := dirEntry.Info()
		if err != nil {
			// raced with a concurrent delete, skip the entry
			lp.log.Debugf("list entry info err: %s, name: %s, path: %s",
				err, lp.name, sharePath)
			continue
		}
		entries = append(entries, &Entry{
			Path:    path.Join(sharePath, dirEntry.Name()),
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

func (lp *LocalProvider) Write(ctx context.Context, sharePath string, offset uint64, data []byte) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	localPath, err := lp.resolve(sharePath)
	if err != nil {
		return 0, err
	}
	file, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	n, err := file.WriteAt(data, int64(offset))
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// resolve confines a share-relative path to the bound root. The empty
// path names the root itself.
func (lp *LocalProvider) resolve(sharePath string) (string, error) {
	lp.rootMtx.RLock()
	root := lp.root
	lp.rootMtx.RUnlock()
	if root == "" {
		return "", ErrNotShared
	}
	if strings.HasPrefix(sharePath, "/") || strings.HasPrefix(sharePath, "\\") {
		return "", ErrIllegalPath
	}
	for _, part := range strings.Split(sharePath, "/") {
		if part == ".." {
			return "", ErrIllegalPath
		}
	}
	return filepath.Join(root, filepath.FromSlash(sharePath)), nil
}
