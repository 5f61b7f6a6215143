package assign

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"logograb/internal/catalog"
	"logograb/internal/fileutil"
	"logograb/internal/services"
	"logograb/internal/textutil"
)

// logoURL returns the reference stored on a new logo: the raw catalog URL, or
// the local file path after downloading when downloads are enabled.
func (e *Engine) logoURL(ctx context.Context, entry catalog.Entry) (string, bool, error) {
	if !e.opts.Download {
		ref := e.fetcher.RawURL(entry.Path)
		if err := ValidateLogoRef(ref); err != nil {
			return "", false, err
		}
		return ref, false, nil
	}

	data, err := e.fetcher.Download(ctx, entry.Path)
	if err != nil {
		return "", false, services.Wrap(services.ErrTransient, "assign", "download logo", entry.Path, err)
	}
	if len(data) == 0 {
		return "", false, services.Wrap(services.ErrValidation, "assign", "download logo", "empty file "+entry.Path, nil)
	}
	local, err := writeLogoFile(e.opts.LogoDir, entry, data)
	if err != nil {
		return "", false, services.Wrap(services.ErrTransient, "assign", "store logo", entry.Path, err)
	}
	if err := ValidateLogoRef(local); err != nil {
		return "", true, err
	}
	return local, true, nil
}

// LocalFileName is the file name a downloaded entry is stored under.
func LocalFileName(entry catalog.Entry) string {
	ext := strings.ToLower(path.Ext(entry.FileName))
	stem := strings.TrimSuffix(entry.FileName, path.Ext(entry.FileName))
	stem = textutil.SanitizeFileName(stem)
	if stem == "" {
		stem = textutil.SanitizeToken(entry.NormalizedKey)
	}
	return stem + ext
}

func writeLogoFile(dir string, entry catalog.Entry, data []byte) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve logo directory: %w", err)
	}
	target := filepath.Join(abs, LocalFileName(entry))
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// ValidateLogoRef accepts an absolute http(s) URL with a host or an absolute
// filesystem path.
func ValidateLogoRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return services.Wrap(services.ErrValidation, "assign", "validate logo", "empty reference", nil)
	}
	if filepath.IsAbs(ref) {
		return nil
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return services.Wrap(services.ErrValidation, "assign", "validate logo", ref, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return services.Wrap(services.ErrValidation, "assign", "validate logo", "not an absolute http(s) url: "+ref, nil)
	}
	return nil
}
