package listing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	listingRepo "chalethaven/database/repository/listing"
	"chalethaven/models"
	"chalethaven/services/normalize"

	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

var (
	ErrNotFound     = errors.New("chalet not found")
	ErrSlugTaken    = errors.New("a chalet with this slug already exists")
	ErrInvalidPatch = errors.New("invalid listing update")
)

// PatchError explains why a listing update was refused.
type PatchError struct {
	Field  string
	Reason string
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *PatchError) Unwrap() error { return ErrInvalidPatch }

type Service struct {
	repo   listingRepo.ListingRepository
	logger *zap.Logger
}

func NewService(repo listingRepo.ListingRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get resolves a listing by slug, then by id.
func (s *Service) Get(ctx context.Context, slugOrID string) (*models.Listing, error) {
	rec, err := s.repo.GetBySlug(ctx, slugOrID)
	if errors.Is(err, listingRepo.ErrListingNotFound) {
		rec, err = s.repo.GetByID(ctx, slugOrID)
	}
	if err != nil {
		if errors.Is(err, listingRepo.ErrListingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	l := FromRecord(*rec)
	return &l, nil
}

// List pages through listings. Callers without admin rights only see active ones.
func (s *Service) List(ctx context.Context, q models.ListingQuery, admin bool) ([]models.Listing, models.Pagination, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := listingRepo.ListingFilter{
		Active:    q.Active,
		Location:  strings.TrimSpace(q.Location),
		MinGuests: q.MinGuests,
		Search:    strings.TrimSpace(q.Search),
		Skip:      int64((page - 1) * limit),
		Limit:     int64(limit),
	}
	if !admin {
		active := true
		filter.Active = &active
	}

	recs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	out := make([]models.Listing, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out, models.Pagination{Page: page, Limit: limit, Total: total}, nil
}

// Create inserts a listing, deriving the slug from the title when absent.
func (s *Service) Create(ctx context.Context, rec models.ListingRecord) (*models.Listing, error) {
	rec.Title = strings.TrimSpace(rec.Title)
	if rec.Title == "" {
		return nil, &PatchError{Field: "title", Reason: "is required"}
	}
	if rec.Slug == "" {
		rec.Slug = Slugify(rec.Title)
	} else {
		rec.Slug = Slugify(rec.Slug)
	}
	if rec.Slug == "" {
		return nil, &PatchError{Field: "slug", Reason: "must contain letters or digits"}
	}
	if err := validateRecord(rec); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &rec); err != nil {
		if errors.Is(err, listingRepo.ErrSlugTaken) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.logger.Info("listing created", zap.String("slug", rec.Slug))
	l := FromRecord(rec)
	return &l, nil
}

// Update applies a partial update and returns the stored result.
func (s *Service) Update(ctx context.Context, slugOrID string, patch models.ListingPatch) (*models.Listing, error) {
	if patch.Empty() {
		return nil, &PatchError{Field: "body", Reason: "no updatable fields provided"}
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	slug := slugOrID
	rec, err := s.repo.Update(ctx, slug, patch)
	if errors.Is(err, listingRepo.ErrListingNotFound) {
		// Same fallback as Get: the path segment may be an ObjectID.
		if byID, idErr := s.repo.GetByID(ctx, slugOrID); idErr == nil {
			slug = byID.Slug
			rec, err = s.repo.Update(ctx, slug, patch)
		}
	}
	if err != nil {
		if errors.Is(err, listingRepo.ErrListingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.logger.Info("listing updated", zap.String("slug", slug))
	l := FromRecord(*rec)
	return &l, nil
}

// FromRecord normalizes a stored listing into its API shape.
func FromRecord(rec models.ListingRecord) models.Listing {
	l := models.Listing{
		Slug:         rec.Slug,
		Title:        rec.Title,
		Description:  rec.Description,
		Pricing:      rec.Pricing,
		Capacity:     rec.Capacity,
		Location:     rec.Location,
		Amenities:    normalize.Amenities(rec.Amenities),
		Images:       normalize.NormalizeImages(rec.Images),
		Availability: rec.Availability,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if !rec.ID.IsZero() {
		l.ID = rec.ID.Hex()
	}
	if l.Availability.Blocked == nil {
		l.Availability.Blocked = []models.DateRange{}
	}
	return l
}

func validateRecord(rec models.ListingRecord) error {
	if err := validateRates(rec.Pricing.BasePrice, rec.Pricing.CleaningFee, rec.Pricing.SecurityDeposit, rec.Pricing.TaxRate); err != nil {
		return err
	}
	if rec.Capacity.MaxGuests < 0 {
		return &PatchError{Field: "capacity.maxGuests", Reason: "cannot be negative"}
	}
	return validateBlocked(rec.Availability.Blocked)
}

func validatePatch(p models.ListingPatch) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &PatchError{Field: "title", Reason: "cannot be empty"}
	}
	if rp := p.Pricing; rp != nil {
		if err := validateRates(deref(rp.BasePrice), deref(rp.CleaningFee), deref(rp.SecurityDeposit), deref(rp.TaxRate)); err != nil {
			return err
		}
	}
	if cp := p.Capacity; cp != nil && cp.MaxGuests != nil && *cp.MaxGuests < 0 {
		return &PatchError{Field: "capacity.maxGuests", Reason: "cannot be negative"}
	}
	if ap := p.Availability; ap != nil {
		return validateBlocked(ap.Blocked)
	}
	return nil
}

func validateRates(base, cleaning, deposit, tax float64) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"pricing.basePrice", base},
		{"pricing.cleaningFee", cleaning},
		{"pricing.securityDeposit", deposit},
		{"pricing.taxRate", tax},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &PatchError{Field: f.name, Reason: "must be a non-negative number"}
		}
	}
	if tax > 100 {
		return &PatchError{Field: "pricing.taxRate", Reason: "is a percentage and cannot exceed 100"}
	}
	return nil
}

func validateBlocked(ranges []models.DateRange) error {
	for i, r := range ranges {
		if r.Start.IsZero() || r.End.IsZero() || !r.End.After(r.Start) {
			return &PatchError{Field: fmt.Sprintf("availability.blocked[%d]", i), Reason: "end must be after start"}
		}
	}
	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	replacer := strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss", "é", "e", "è", "e", "ê", "e", "à", "a", "â", "a", "ô", "o", "î", "i", "ç", "c")
	s = replacer.Replace(s)
	return strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
}
