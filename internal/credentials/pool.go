// Package credentials rotates authenticated sessions from a pool directory of
// Netscape cookie files.
package credentials

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/famomatic/ytplay/internal/cookies"
	ytlog "github.com/famomatic/ytplay/internal/log"
	"github.com/famomatic/ytplay/internal/metrics"
	"github.com/famomatic/ytplay/internal/types"
)

// ErrNoCredentialsAvailable is returned when the pool directory holds no
// credential files.
var ErrNoCredentialsAvailable = errors.New("no credentials available")

// Bundle is one credential file loaded from the pool.
type Bundle struct {
	Name    string
	Path    string
	Cookies []*http.Cookie
	jar     http.CookieJar
}

// Jar returns a cookie jar holding the bundle's cookies.
func (b *Bundle) Jar() http.CookieJar { return b.jar }

// Session converts the bundle into the session handed to providers.
func (b *Bundle) Session() *types.Session {
	if b == nil {
		return nil
	}
	return &types.Session{Name: b.Name, Jar: b.jar}
}

// Pool picks a credential file uniformly at random per acquisition. It does
// not check whether a bundle is still valid.
type Pool struct {
	fs        afero.Fs
	dir       string
	auditPath string
	pick      func(n int) int
	now       func() time.Time
	logger    zerolog.Logger

	// serializes audit appends within the process
	auditMu sync.Mutex
}

// Option configures a Pool.
type Option func(*Pool)

// WithPicker overrides the random index source. pick(n) must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(p *Pool) { p.pick = pick }
}

// WithClock overrides the audit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pool) { p.logger = l }
}

// NewPool returns a pool reading dir on fs. An empty auditPath disables the audit log.
func NewPool(fs afero.Fs, dir, auditPath string, opts ...Option) *Pool {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	p := &Pool{
		fs:        fs,
		dir:       dir,
		auditPath: auditPath,
		pick:      rand.IntN,
		now:       time.Now,
		logger:    ytlog.WithComponent("credentials"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Files lists the candidate credential files in name order.
func (p *Pool) Files() ([]string, error) {
	entries, err := afero.ReadDir(p.fs, p.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read pool dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.Mode().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Acquire selects one bundle and records the choice in the audit log.
func (p *Pool) Acquire() (*Bundle, error) {
	names, err := p.Files()
	if err != nil {
		metrics.RecordCredentialAcquire("error")
		return nil, err
	}
	if len(names) == 0 {
		metrics.RecordCredentialAcquire("empty")
		return nil, fmt.Errorf("%w: %s", ErrNoCredentialsAvailable, p.dir)
	}

	name := names[p.pick(len(names))]
	path := filepath.Join(p.dir, name)

	f, err := p.fs.Open(path)
	if err != nil {
		metrics.RecordCredentialAcquire("error")
		return nil, fmt.Errorf("open credential %s: %w", name, err)
	}
	defer f.Close()

	list, jar, err := cookies.LoadJar(f)
	if err != nil {
		metrics.RecordCredentialAcquire("error")
		return nil, fmt.Errorf("load credential %s: %w", name, err)
	}

	p.audit(name)
	metrics.RecordCredentialAcquire("ok")
	p.logger.Debug().Str("bundle", name).Int("cookies", len(list)).Msg("credential selected")

	return &Bundle{Name: name, Path: path, Cookies: list, jar: jar}, nil
}

// audit failures are logged and do not fail the acquisition.
func (p *Pool) audit(name string) {
	if p.auditPath == "" {
		return
	}
	p.auditMu.Lock()
	defer p.auditMu.Unlock()

	if dir := filepath.Dir(p.auditPath); dir != "." && dir != "" {
		_ = p.fs.MkdirAll(dir, 0o755)
	}
	f, err := p.fs.OpenFile(p.auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		p.logger.Warn().Err(err).Str("audit_log", p.auditPath).Msg("open audit log")
		return
	}
	defer f.Close()
	line := fmt.Sprintf("%s\t%s\n", p.now().UTC().Format(time.RFC3339), name)
	if _, err := f.WriteString(line); err != nil {
		p.logger.Warn().Err(err).Str("audit_log", p.auditPath).Msg("append audit log")
	}
}
