package storage

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chalethaven/models"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

var (
	ErrNotConfigured    = errors.New("image uploads are not configured")
	ErrFolderNotAllowed = errors.New("upload folder is not allowed")
)

// Credentials of the media host account.
type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c Credentials) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Signer produces signatures for direct browser uploads so the secret never
// leaves the server.
type Signer struct {
	creds Credentials
	now   func() time.Time
}

// NewSigner fails with ErrNotConfigured when any credential is missing.
func NewSigner(creds Credentials) (*Signer, error) {
	if !creds.Configured() {
		return nil, ErrNotConfigured
	}
	return &Signer{creds: creds, now: time.Now}, nil
}

// Sign authorizes one upload into folder at the current time.
func (s *Signer) Sign(folder string) (models.UploadSignature, error) {
	ts := s.now().Unix()
	params := url.Values{"timestamp": {strconv.FormatInt(ts, 10)}}
	if folder != "" {
		params.Set("folder", folder)
	}
	sig, err := api.SignParameters(params, s.creds.APISecret)
	if err != nil {
		return models.UploadSignature{}, fmt.Errorf("failed to sign upload: %w", err)
	}
	return models.UploadSignature{
		Signature: sig,
		Timestamp: ts,
		APIKey:    s.creds.APIKey,
		CloudName: s.creds.CloudName,
		Folder:    folder,
	}, nil
}

var folderSegment = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ResolveFolder places requested under base. An empty request means base
// itself; anything else must be one of allowed.
func ResolveFolder(base, requested string, allowed map[string]bool) (string, error) {
	requested = strings.Trim(strings.ToLower(strings.TrimSpace(requested)), "/")
	if requested == "" {
		return base, nil
	}
	if !folderSegment.MatchString(requested) || !allowed[requested] {
		return "", fmt.Errorf("%w: %q", ErrFolderNotAllowed, requested)
	}
	if base == "" {
		return requested, nil
	}
	return base + "/" + requested, nil
}
