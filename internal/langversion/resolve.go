package langversion

import (
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"
)

// Request carries everything resolution looks at for one document.
type Request struct {
	// Path locates build-tool configs; empty for unsaved buffers.
	Path    string
	Content []byte
	// Setting is the user's explicit override.
	Setting string
}

// Resolver applies the resolution order: explicit setting, build-tool
// config, pragma, Latest.
type Resolver struct {
	Disk   *DiskCache // may be nil
	Logger *slog.Logger
}

func (r *Resolver) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Resolve never fails; unreadable configs are logged and skipped.
func (r *Resolver) Resolve(req Request) Version {
	if v := cleanVersion(req.Setting); v != "" {
		if Valid(v) {
			return Version{Value: v, Source: SourceSetting}
		}
		r.logger().Warn("ignoring invalid solidity version setting", "value", req.Setting)
	}
	if req.Path != "" {
		if v, ok := r.fromConfig(filepath.Dir(req.Path)); ok {
			return v
		}
	}
	if v, ok := FromPragma(req.Content); ok {
		return Version{Value: v, Source: SourcePragma}
	}
	return Version{Value: Latest, Source: SourceDefault}
}

func (r *Resolver) fromConfig(dir string) (Version, bool) {
	log := r.logger()
	path, cf, ok, err := findConfig(dir)
	if err != nil {
		log.Debug("build config lookup failed", "dir", dir, "error", err)
		return Version{}, false
	}
	if !ok {
		return Version{}, false
	}

	// #nosec G304 -- path is found by walking up from the source file
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("build config unreadable", "path", path, "error", err)
		return Version{}, false
	}
	key := sha256.Sum256(append([]byte(path+"\x00"), data...))

	var entry DiskEntry
	var d *DiskCache
	if r != nil {
		d = r.Disk
	}
	if hit, err := d.Get(key, &entry); err == nil && hit && entry.Schema == diskCacheSchemaVersion {
		if entry.Value == "" {
			return Version{}, false
		}
		return Version{Value: entry.Value, Source: Source(entry.Source)}, true
	}

	raw, err := cf.read(path)
	if err != nil {
		log.Warn("failed to read build config", "path", path, "error", err)
		return Version{}, false
	}
	v := cleanVersion(raw)
	if v != "" && !Valid(v) {
		log.Warn("ignoring invalid solidity version in build config", "path", path, "value", raw)
		v = ""
	}
	if err := d.Put(key, &DiskEntry{Schema: diskCacheSchemaVersion, Path: path, Value: v, Source: string(cf.source)}); err != nil {
		log.Debug("version cache write failed", "error", err)
	}
	if v == "" {
		return Version{}, false
	}
	return Version{Value: v, Source: cf.source}, true
}
