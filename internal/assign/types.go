package assign

import (
	"context"

	"logograb/internal/catalog"
)

// ChannelRecord is a host channel as read at the start of a pass.
type ChannelRecord struct {
	ID                int64
	Name              string
	TVGID             string
	CurrentLogoRef    *int64
	CurrentLogoURL    string
	IsPlaceholderLogo bool
}

// Healthy reports whether the channel already has a real logo and must be
// left alone.
func (c ChannelRecord) Healthy() bool {
	return c.CurrentLogoRef != nil && !c.IsPlaceholderLogo
}

// LogoRecord is a host logo. Key is unique across the host.
type LogoRecord struct {
	ID  int64
	Key string
	URL string
}

// Host is the data-access surface of the media-management host.
type Host interface {
	ListChannelsMissingLogo(ctx context.Context) ([]ChannelRecord, error)
	// FindLogoByKey returns nil without error when no logo has key.
	FindLogoByKey(ctx context.Context, key string) (*LogoRecord, error)
	// CreateLogo returns the existing record when key is already taken.
	CreateLogo(ctx context.Context, key, url string) (*LogoRecord, error)
	SetChannelLogo(ctx context.Context, channelID, logoID int64) error
}

// IndexSource yields the catalog index for a pass.
type IndexSource interface {
	Build(ctx context.Context, force bool) (catalog.BuildResult, error)
}

// Fetcher resolves catalog paths to URLs and file contents.
type Fetcher interface {
	RawURL(path string) string
	Download(ctx context.Context, path string) ([]byte, error)
}
