package fuzz

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mrhapile/brainrot-fuzz/arch"
)

// ArtifactExt is the file extension of persisted artifacts.
const ArtifactExt = ".bf"

// Comment block delimiters. Neither contains an opcode.
const (
	commentOpen  = "(*"
	commentClose = "*)"
)

// descReplacer maps every opcode in a description to a look-alike that is
// not an opcode, so an artifact runs exactly like the program it holds.
var descReplacer = strings.NewReplacer(
	"[", "{",
	"]", "}",
	"<", "(",
	">", ")",
	"+", "#",
	"-", "~",
	".", ":",
	",", ";",
)

// Store persists failing programs.
type Store interface {
	// Persist stores p with a human-readable description and returns
	// the new artifact's id.
	Persist(p arch.Program, description string) (string, error)
}

// newArtifactID returns a fresh artifact id.
var newArtifactID = func() string {
	return uuid.NewString()
}

// DirStore writes each artifact to its own file in Dir.
type DirStore struct {
	Dir string
}

// NewDirStore creates a store writing to dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

// Path returns the file path of the artifact with the given id.
func (s *DirStore) Path(id string) string {
	return filepath.Join(s.Dir, id+ArtifactExt)
}

// Persist implements Store.Persist. An existing file is never overwritten.
func (s *DirStore) Persist(p arch.Program, description string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create artifact directory")
	}

	id := newArtifactID()
	path := s.Path(id)

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrapf(err, "create artifact %s", id)
	}

	_, err = fd.WriteString(FormatArtifact(description, p))
	if cerr := fd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", errors.Wrapf(err, "write artifact %s", id)
	}

	log.Infof("artifact %s written", path)
	return id, nil
}

// FormatArtifact renders an artifact: a comment block holding the
// description with all opcodes substituted, followed by p on its own line.
func FormatArtifact(description string, p arch.Program) string {
	desc := descReplacer.Replace(description)
	desc = strings.ReplaceAll(desc, commentClose, "* )")

	var sb strings.Builder
	sb.Grow(len(desc) + len(p) + 8)
	sb.WriteString(commentOpen + "\n")
	if desc != "" {
		sb.WriteString(desc)
		if !strings.HasSuffix(desc, "\n") {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString(commentClose + "\n")
	sb.WriteString(string(p))
	sb.WriteByte('\n')
	return sb.String()
}

// ParseArtifact splits an artifact into its description and program.
// Input without a leading comment block is treated as a bare program.
func ParseArtifact(data []byte) (string, arch.Program, error) {
	s := string(data)

	if !strings.HasPrefix(s, commentOpen+"\n") {
		return "", arch.Program(strings.TrimSuffix(s, "\n")), nil
	}

	rest := s[len(commentOpen)+1:]
	end := strings.Index(rest, commentClose+"\n")
	if end < 0 {
		return "", "", errors.New("artifact: unterminated comment block")
	}

	desc := strings.TrimSuffix(rest[:end], "\n")
	prog := strings.TrimSuffix(rest[end+len(commentClose)+1:], "\n")
	return desc, arch.Program(prog), nil
}
