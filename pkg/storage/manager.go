package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the configured disks. Call once at startup. The local disk
// is always available; the s3 disk only when S3_BUCKET is set.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.Get("STORAGE_DISK", "local")
	disks["local"] = newLocalDisk()

	if config.Get("S3_BUCKET", "") != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3"). It panics on an
// unconfigured name, which is a boot-order bug, not a runtime condition.
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom Disk implementation at boot time.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// The helpers below proxy to the default disk (STORAGE_DISK, default "local").

func defaultD() Disk { return Use(defaultDisk) }

func Put(path string, content []byte) error    { return defaultD().Put(path, content) }
func PutStream(path string, r io.Reader) error { return defaultD().PutStream(path, r) }
func Get(path string) ([]byte, error)          { return defaultD().Get(path) }
func GetStream(path string) (io.ReadCloser, error) {
	return defaultD().GetStream(path)
}
func Exists(path string) bool                  { return defaultD().Exists(path) }
func Size(path string) (int64, error)          { return defaultD().Size(path) }
func Delete(path string) error                 { return defaultD().Delete(path) }
func URL(path string) string                   { return defaultD().URL(path) }
func Files(directory string) ([]string, error) { return defaultD().Files(directory) }
