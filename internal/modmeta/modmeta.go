// Package modmeta reads packaged-mod archives (.jar) and extracts the
// (namespace, display name) pairs their descriptors declare, so the mod
// registry can resolve schematic namespaces to real mod names.
package modmeta

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/schemview/schemview/internal/logger"
	"github.com/schemview/schemview/internal/mcdata"
)

// Descriptor files checked inside an archive, in preference order.
const (
	fabricDescriptor = "fabric.mod.json"
	quiltDescriptor  = "quilt.mod.json"
	legacyDescriptor = "mcmod.info"
)

// A descriptor larger than this is not a mod manifest.
const maxDescriptorBytes = 1 << 20

// ModInfo is one mod declared by an archive.
type ModInfo struct {
	ID   string
	Name string
}

type fabricManifest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type quiltManifest struct {
	QuiltLoader struct {
		ID       string `json:"id"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"quilt_loader"`
}

type legacyManifest struct {
	ModID string `json:"modid"`
	Name  string `json:"name"`
}

// ReadArchive opens a mod archive and returns every mod it declares. An
// archive with no recognized descriptor yields an empty slice, not an
// error; a file that is not a zip archive fails.
func ReadArchive(path string) ([]ModInfo, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open mod archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		switch f.Name {
		case fabricDescriptor:
			return parseFabric(f)
		case quiltDescriptor:
			return parseQuilt(f)
		case legacyDescriptor:
			return parseLegacy(f)
		}
	}
	return nil, nil
}

func readDescriptor(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxDescriptorBytes {
		return nil, fmt.Errorf("descriptor %s too large: %d bytes", f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open descriptor %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxDescriptorBytes))
}

func parseFabric(f *zip.File) ([]ModInfo, error) {
	data, err := readDescriptor(f)
	if err != nil {
		return nil, err
	}
	var m fabricManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	if m.ID == "" {
		return nil, nil
	}
	if m.Name == "" {
		m.Name = m.ID
	}
	return []ModInfo{{ID: m.ID, Name: m.Name}}, nil
}

func parseQuilt(f *zip.File) ([]ModInfo, error) {
	data, err := readDescriptor(f)
	if err != nil {
		return nil, err
	}
	var m quiltManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	id := m.QuiltLoader.ID
	if id == "" {
		return nil, nil
	}
	name := m.QuiltLoader.Metadata.Name
	if name == "" {
		name = id
	}
	return []ModInfo{{ID: id, Name: name}}, nil
}

// parseLegacy handles the old Forge mcmod.info format: a JSON array of mod
// entries, one archive possibly shipping several mods.
func parseLegacy(f *zip.File) ([]ModInfo, error) {
	data, err := readDescriptor(f)
	if err != nil {
		return nil, err
	}
	var entries []legacyManifest
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	mods := make([]ModInfo, 0, len(entries))
	for _, e := range entries {
		if e.ModID == "" {
			continue
		}
		name := e.Name
		if name == "" {
			name = e.ModID
		}
		mods = append(mods, ModInfo{ID: e.ModID, Name: name})
	}
	return mods, nil
}

// ScanDir ingests every .jar in dir into the registry and returns the mods
// it registered. Unreadable archives are logged and skipped; a missing
// directory fails.
func ScanDir(dir string, reg *mcdata.ModRegistry, log logger.Logger) ([]ModInfo, error) {
	if log == nil {
		log = logger.Nop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read mods dir: %w", err)
	}
	var registered []ModInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".jar") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		mods, err := ReadArchive(path)
		if err != nil {
			log.Warn("skipping unreadable mod archive", "path", path, "error", err)
			continue
		}
		for _, m := range mods {
			reg.Add(m.ID, m.Name)
			registered = append(registered, m)
		}
	}
	return registered, nil
}
