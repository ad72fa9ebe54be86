package paravision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownRole is returned for a file role outside the five known ones
var ErrUnknownRole = errors.New("param file must be one of 'reco', 'acqp', 'method', 'visu_pars' or 'subject'")

// Role names one of the parameter files of a scan
type Role string

const (
	RoleReco     Role = "reco"
	RoleAcqp     Role = "acqp"
	RoleMethod   Role = "method"
	RoleVisuPars Role = "visu_pars"
	RoleSubject  Role = "subject"
)

// Roles lists every known file role
var Roles = []Role{RoleReco, RoleAcqp, RoleMethod, RoleVisuPars, RoleSubject}

// ParseRole maps a role token, in any letter case, to a Role
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Roles {
		if r == role {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: got %q", ErrUnknownRole, s)
}

// Path returns where the file for this role lives under a scan directory.
// reco and visu_pars sit in the processed-data folder of the sub-scan.
func (r Role) Path(scanRoot string, subScan int) string {
	switch r {
	case RoleReco, RoleVisuPars:
		return filepath.Join(scanRoot, "pdata", strconv.Itoa(subScan), string(r))
	default:
		return filepath.Join(scanRoot, string(r))
	}
}

// LookupEncoding returns the text encoding for a configuration name
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf8", "utf-8", "ascii":
		return encoding.Nop, nil
	default:
		return nil, fmt.Errorf("unsupported parameter file encoding %q", name)
	}
}

// Locator finds and parses the parameter files of one scan directory
type Locator struct {
	// Root is the scan directory (the numbered folder holding acqp and method)
	Root string

	// SubScan selects pdata/<SubScan> for reco and visu_pars; values below 1 mean 1
	SubScan int

	// Encoding decodes file bytes to UTF-8. Files are Latin-1 by default.
	Encoding encoding.Encoding

	logger *zap.Logger
}

// NewLocator creates a locator for a scan directory. A nil logger disables logging.
func NewLocator(root string, subScan int, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{
		Root:     root,
		SubScan:  subScan,
		Encoding: charmap.ISO8859_1,
		logger:   logger,
	}
}

// Read parses the file for a role given as a token such as "method"
func (l *Locator) Read(role string) (Map, error) {
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	return l.ReadRole(r)
}

// ReadRole parses the file for a role. A missing file is not an error: it is
// logged and an empty map is returned.
func (l *Locator) ReadRole(role Role) (Map, error) {
	path := role.Path(l.Root, l.subScan())

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("parameter file does not exist", zap.String("path", path))
		return Map{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	enc := l.Encoding
	if enc == nil {
		enc = encoding.Nop
	}

	params, err := Parse(enc.NewDecoder().Reader(f))
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	l.logger.Debug("parsed parameter file",
		zap.String("role", string(role)),
		zap.String("path", path),
		zap.Int("keys", len(params)))
	return params, nil
}

// ReadScan parses every role of the scan. The files are independent, so they
// are read concurrently; all errors are reported together.
func (l *Locator) ReadScan() (map[Role]Map, error) {
	maps := make([]Map, len(Roles))
	errs := make([]error, len(Roles))

	var wg sync.WaitGroup
	for i, role := range Roles {
		wg.Add(1)
		go func(i int, role Role) {
			defer wg.Done()
			maps[i], errs[i] = l.ReadRole(role)
		}(i, role)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	result := make(map[Role]Map, len(Roles))
	for i, role := range Roles {
		result[role] = maps[i]
	}
	return result, nil
}

func (l *Locator) subScan() int {
	if l.SubScan < 1 {
		return 1
	}
	return l.SubScan
}
