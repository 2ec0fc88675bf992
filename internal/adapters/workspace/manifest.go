// Package workspace implements the workspace model collaborator backed by a
// YAML workspace manifest (ripple.yaml).
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/ripple/internal/core/domain"
	"go.trai.ch/ripple/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ManifestName is the workspace manifest file name discovered from the
// session root upward.
const ManifestName = "ripple.yaml"

var validUnitIDRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Model implements ports.WorkspaceModel by parsing the workspace manifest.
// Each Snapshot call re-reads the manifest, so snapshots reflect the
// on-disk state at one point in time and never change afterwards.
type Model struct {
	logger ports.Logger
}

var _ ports.WorkspaceModel = (*Model)(nil)

// NewModel creates a manifest-backed workspace model.
func NewModel(logger ports.Logger) *Model {
	return &Model{logger: logger}
}

// Snapshot parses the manifest governing root and returns an immutable view.
func (m *Model) Snapshot(_ context.Context, root string) (ports.WorkspaceSnapshot, error) {
	manifestPath, manifestRoot, err := findManifest(root)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(manifestPath) //nolint:gosec // path derived from session root
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var mf manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}

	return buildSnapshot(manifestRoot, &mf)
}

// DiscoverRoot walks up from cwd to the directory containing the manifest.
func DiscoverRoot(cwd string) (string, error) {
	_, root, err := findManifest(cwd)
	return root, err
}

// findManifest walks up from dir looking for the manifest file.
func findManifest(dir string) (path, root string, err error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", "", zerr.Wrap(err, domain.ErrManifestNotFound.Error())
	}

	for {
		candidate := filepath.Join(current, ManifestName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", "", zerr.With(domain.ErrManifestNotFound, "cwd", dir)
		}
		current = parent
	}
}

// snapshot is the immutable parsed view of one manifest read.
type snapshot struct {
	root        string
	units       []ports.UnitDescriptor
	refs        map[string][]string
	owners      map[string][]string // relative document path -> unit ids
	fingerprint uint64
}

var _ ports.WorkspaceSnapshot = (*snapshot)(nil)

func buildSnapshot(root string, mf *manifest) (*snapshot, error) {
	s := &snapshot{
		root:   root,
		units:  make([]ports.UnitDescriptor, 0, len(mf.Units)),
		refs:   make(map[string][]string, len(mf.Units)),
		owners: make(map[string][]string),
	}

	seen := make(map[string]struct{}, len(mf.Units))
	digest := xxhash.New()

	for _, u := range mf.Units {
		if !validUnitIDRegex.MatchString(u.ID) {
			return nil, zerr.With(domain.ErrInvalidUnitID, "unit_id", u.ID)
		}
		if _, dup := seen[u.ID]; dup {
			return nil, zerr.With(domain.ErrDuplicateUnit, "unit_id", u.ID)
		}
		seen[u.ID] = struct{}{}

		name := u.Name
		if name == "" {
			name = u.ID
		}

		s.units = append(s.units, ports.UnitDescriptor{
			ID:        u.ID,
			Name:      name,
			Language:  u.Language,
			Documents: slices.Clone(u.Documents),
		})
		s.refs[u.ID] = slices.Clone(u.References)

		for _, doc := range u.Documents {
			rel := normalizePath(doc)
			s.owners[rel] = append(s.owners[rel], u.ID)
		}

		// Fingerprint covers ids, references and documents in manifest order.
		_, _ = digest.WriteString(u.ID)
		_, _ = digest.WriteString("\x00")
		for _, ref := range u.References {
			_, _ = digest.WriteString(ref)
			_, _ = digest.WriteString("\x01")
		}
		for _, doc := range u.Documents {
			_, _ = digest.WriteString(normalizePath(doc))
			_, _ = digest.WriteString("\x02")
		}
	}

	s.fingerprint = digest.Sum64()
	return s, nil
}

// Units enumerates all compilation units in manifest order.
func (s *snapshot) Units() []ports.UnitDescriptor {
	return slices.Clone(s.units)
}

// References lists the declared references of the given unit.
func (s *snapshot) References(unitID string) ([]string, error) {
	refs, ok := s.refs[unitID]
	if !ok {
		return nil, zerr.With(domain.ErrUnitNotFound, "unit_id", unitID)
	}
	return slices.Clone(refs), nil
}

// OwningUnits resolves which unit(s) contain the given file path. Absolute
// paths are relativized against the manifest root first.
func (s *snapshot) OwningUnits(path string) []string {
	lookup := path
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(s.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil
		}
		lookup = rel
	}
	return slices.Clone(s.owners[normalizePath(lookup)])
}

// Fingerprint is a stable hash of the snapshot's structure.
func (s *snapshot) Fingerprint() uint64 {
	return s.fingerprint
}

// normalizePath cleans a document path to the form used for owner lookups.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
