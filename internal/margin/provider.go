package margin

import (
	"github.com/dshills/glyphclick/internal/view"
)

// Provider creates breakpoint trackers for glyph margins. It shares one lazy
// toggler across every tracker it creates.
type Provider struct {
	toggler *Lazy[Toggler]
	opts    []Option
}

// NewProvider creates a provider. The toggler is not resolved until the first
// breakpoint click.
func NewProvider(toggler *Lazy[Toggler], opts ...Option) (*Provider, error) {
	if toggler == nil {
		return nil, ErrNilToggler
	}
	return &Provider{
		toggler: toggler,
		opts:    opts,
	}, nil
}

// Associate creates a tracker for m. It returns ErrNotDebuggable if the
// margin's view does not carry the debuggable role.
func (p *Provider) Associate(m *Margin) (*Tracker, error) {
	if m == nil {
		return nil, ErrNilMargin
	}
	if !m.Surface().HasRole(view.RoleDebuggable) {
		return nil, ErrNotDebuggable
	}
	return NewTracker(m, p.toggler, p.opts...)
}
