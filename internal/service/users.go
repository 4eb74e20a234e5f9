package service

import (
	"context"       // Request scoped calls
	"fmt"           // Upload sizes in messages
	"io"            // Upload streams
	"path/filepath" // Upload extensions
	"strings"       // Normalization
	"time"          // Dates of birth

	"skate_marketplace/internal/apperr" // Error taxonomy
	"skate_marketplace/internal/domain" // Importing domain models
	"skate_marketplace/internal/dto"    // Request shapes
	"skate_marketplace/internal/utils"  // Password hashing

	"github.com/google/uuid"     // Upload file names
	"github.com/samber/lo"       // Slice helpers
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/datatypes"          // JSON columns
)

// avatarTypes are the accepted avatar extensions
var avatarTypes = []string{".jpeg", ".jpg", ".png", ".gif", ".webp"}

// Upload is a file received from a client
type Upload struct {
	Filename string    // Client-side file name, only its extension is used
	Size     int64     // Declared size in bytes
	Body     io.Reader // File contents
}

// UserService manages accounts, profiles, addresses, preferences and avatars
type UserService struct {
	users       UserRepository
	addresses   AddressRepository
	prefs       PreferencesRepository
	files       FileStorage
	paging      Paging
	maxFileSize int64 // Upload limit in bytes
}

// NewUserService creates the user profile component
func NewUserService(users UserRepository, addresses AddressRepository, prefs PreferencesRepository,
	files FileStorage, paging Paging, maxFileSize int64) *UserService {
	return &UserService{
		users:       users,
		addresses:   addresses,
		prefs:       prefs,
		files:       files,
		paging:      paging,
		maxFileSize: maxFileSize,
	}
}

// List returns a page of accounts
func (s *UserService) List(ctx context.Context, q dto.PageQuery) (dto.Page[domain.User], error) {
	p := s.paging.apply(q)
	users, total, err := s.users.List(ctx, p)
	if err != nil {
		return dto.Page[domain.User]{}, err
	}
	return dto.NewPage(users, total, p), nil
}

// Get loads one account
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create adds an account on behalf of an administrator; the requested role is honored
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	user, err := newUser(ctx, s.users, req)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User created")
	return user, nil
}

// Update changes an account on behalf of an administrator
func (s *UserService) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		user.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := applyProfile(user, dto.UpdateProfileRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Password:    req.Password,
	}); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("Email %s is already registered", user.Email)
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account that owns no orders
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logrus.WithField("user_id", id).Info("User deleted")
	return nil
}

// Profile loads the caller's account with addresses and preferences. Preferences that were
// never saved are reported with their defaults.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Preferences == nil {
		defaults := domain.DefaultPreferences(userID)
		user.Preferences = &defaults
	}
	if user.Addresses == nil {
		user.Addresses = []domain.Address{}
	}
	return user, nil
}

// UpdateProfile changes the caller's own account fields
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(user, req); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.Profile(ctx, userID)
}

func applyProfile(user *domain.User, req dto.UpdateProfileRequest) error {
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return err
		}
		user.DateOfBirth = dob
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		user.Password = hash
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC3339; an empty string clears the date
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperr.Validation("Validation failed").
		WithDetails(map[string]string{"dateOfBirth": "must be a date formatted YYYY-MM-DD"})
}

// ListAddresses returns the caller's addresses, default first
func (s *UserService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return addresses, nil
}

// GetAddress loads one of the caller's addresses
func (s *UserService) GetAddress(ctx context.Context, userID, id string) (*domain.Address, error) {
	return s.addresses.FindForUser(ctx, userID, id)
}

// CreateAddress adds an address; type defaults to SHIPPING and country to US
func (s *UserService) CreateAddress(ctx context.Context, userID string, req dto.AddressRequest) (*domain.Address, error) {
	address := &domain.Address{
		UserID:       userID,
		Type:         lo.Ternary(req.Type == "", domain.AddressShipping, req.Type),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      lo.Ternary(strings.TrimSpace(req.Country) == "", "US", req.Country),
		Phone:        req.Phone,
		IsDefault:    req.IsDefault,
	}
	if err := s.addresses.Save(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress changes one of the caller's addresses
func (s *UserService) UpdateAddress(ctx context.Context, userID, id string, req dto.UpdateAddressRequest) (*domain.Address, error) {
	address, err := s.addresses.FindForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	assign(&address.Type, req.Type)
	assign(&address.FirstName, req.FirstName)
	assign(&address.LastName, req.LastName)
	assign(&address.AddressLine1, req.AddressLine1)
	assign(&address.City, req.City)
	assign(&address.State, req.State)
	assign(&address.PostalCode, req.PostalCode)
	assign(&address.Country, req.Country)
	assign(&address.IsDefault, req.IsDefault)
	if req.Company != nil {
		address.Company = req.Company
	}
	if req.AddressLine2 != nil {
		address.AddressLine2 = req.AddressLine2
	}
	if req.Phone != nil {
		address.Phone = req.Phone
	}
	if err := s.addresses.Save(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes one of the caller's addresses
func (s *UserService) DeleteAddress(ctx context.Context, userID, id string) error {
	return s.addresses.Delete(ctx, userID, id)
}

// Preferences returns the caller's settings, or the defaults when none were saved
func (s *UserService) Preferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	prefs, err := s.prefs.FindByUser(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		defaults := domain.DefaultPreferences(userID)
		return &defaults, nil
	}
	return prefs, err
}

// UpsertPreferences merges the request into the caller's settings and stores them
func (s *UserService) UpsertPreferences(ctx context.Context, userID string, req dto.PreferencesRequest) (*domain.UserPreferences, error) {
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.PreferredDeckSize != nil {
		prefs.PreferredDeckSize = req.PreferredDeckSize
	}
	if req.PreferredBrands != nil {
		prefs.PreferredBrands = datatypes.JSONSlice[string](lo.Uniq(*req.PreferredBrands))
	}
	if req.RidingStyle != nil {
		prefs.RidingStyle = datatypes.JSONSlice[string](lo.Uniq(*req.RidingStyle))
	}
	assign(&prefs.SkillLevel, req.SkillLevel)
	assign(&prefs.EmailNotifications, req.EmailNotifications)
	assign(&prefs.SMSNotifications, req.SMSNotifications)
	assign(&prefs.PushNotifications, req.PushNotifications)
	assign(&prefs.MarketingEmails, req.MarketingEmails)
	if req.Currency != nil {
		prefs.Currency = strings.ToUpper(*req.Currency)
	}
	assign(&prefs.MeasurementUnit, req.MeasurementUnit)
	if err := s.prefs.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// UploadAvatar stores a new avatar image and points the account at it. The previous
// avatar file is removed once the account is updated.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, upload Upload) (*domain.User, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !lo.Contains(avatarTypes, ext) {
		return nil, apperr.Validation("Invalid file type. Allowed types: jpeg, jpg, png, gif, webp")
	}
	if upload.Size <= 0 {
		return nil, apperr.Validation("File is empty")
	}
	if upload.Size > s.maxFileSize {
		return nil, apperr.Validation("File too large. Maximum size: %s", formatBytes(s.maxFileSize))
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	path := "avatars/" + uuid.NewString() + ext
	// Guard against a body larger than its declared size
	body := io.LimitReader(upload.Body, s.maxFileSize+1)
	counter := &countingReader{r: body}
	if err := s.files.Save(ctx, path, counter); err != nil {
		return nil, apperr.Internal(err)
	}
	if counter.n > s.maxFileSize {
		s.removeFile(ctx, path)
		return nil, apperr.Validation("File too large. Maximum size: %s", formatBytes(s.maxFileSize))
	}

	previous := user.Avatar
	url := s.files.URL(path)
	user.Avatar = &url
	if err := s.users.Update(ctx, user); err != nil {
		s.removeFile(ctx, path)
		return nil, err
	}
	if previous != nil {
		if old, ok := s.files.PathOf(*previous); ok {
			s.removeFile(ctx, old)
		}
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "path": path}).Info("Avatar uploaded")
	return user, nil
}

func (s *UserService) removeFile(ctx context.Context, path string) {
	if err := s.files.Delete(ctx, path); err != nil {
		logrus.WithField("path", path).WithError(err).Warn("Failed to delete file")
	}
}

// assign copies *src into dst when src is set
func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func formatBytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
